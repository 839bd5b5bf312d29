package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	FeeRepo     FeeRepositoryFacade
	StudentRepo StudentRepositoryFacade
	UserRepo    UserRepositoryFacade
	FinanceRepo FinanceRepositoryFacade
	EventRepo   EventRepositoryFacade
}
