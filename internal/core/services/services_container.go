package services

import (
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/pkg/config"
)

// NewServiceContainer wires every service against the shared repositories and
// the export adapters. Called once at startup.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, renderer portssvc.ReceiptRenderer, archiver portssvc.Archiver) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Fee:     NewFeeService(repos.FeeRepo, repos.StudentRepo),
		Export:  NewExportService(repos.FeeRepo, renderer, archiver, cfg.ExportTmpDir),
		Student: NewStudentService(repos.StudentRepo),
		User:    NewUserService(repos.UserRepo),
		Finance: NewFinanceService(repos.FinanceRepo),
		Event:   NewEventService(repos.EventRepo),
	}
}
