package handler

import (
	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/service"
)

// Handler holds all HTTP handlers
type Handler struct {
	db          *database.Postgres
	rdb         *database.Redis
	log         *logger.Logger
	cfg         *config.Config
	authSvc     *service.AuthService
	mfaSvc      *service.MFAService
	generateSvc *service.GenerateService
	contactSvc  *service.ContactService
	templateSvc *service.TemplateService
	sequenceSvc *service.SequenceService
	statsSvc    *service.StatsService
}

// New creates a new Handler instance
func New(
	db *database.Postgres,
	rdb *database.Redis,
	log *logger.Logger,
	cfg *config.Config,
	authSvc *service.AuthService,
	mfaSvc *service.MFAService,
	generateSvc *service.GenerateService,
	contactSvc *service.ContactService,
	templateSvc *service.TemplateService,
	sequenceSvc *service.SequenceService,
	statsSvc *service.StatsService,
) *Handler {
	return &Handler{
		db:          db,
		rdb:         rdb,
		log:         log,
		cfg:         cfg,
		authSvc:     authSvc,
		mfaSvc:      mfaSvc,
		generateSvc: generateSvc,
		contactSvc:  contactSvc,
		templateSvc: templateSvc,
		sequenceSvc: sequenceSvc,
		statsSvc:    statsSvc,
	}
}
