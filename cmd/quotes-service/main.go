package main

import (
	"fmt"
	"os"

	"github.com/mkamath/quotedesk/internal/auth"
	"github.com/mkamath/quotedesk/internal/cache"
	"github.com/mkamath/quotedesk/internal/config"
	"github.com/mkamath/quotedesk/internal/db"
	"github.com/mkamath/quotedesk/internal/excel"
	httphandler "github.com/mkamath/quotedesk/internal/http"
	"github.com/mkamath/quotedesk/internal/http/middleware"
	"github.com/mkamath/quotedesk/internal/logger"
	"github.com/mkamath/quotedesk/internal/pdf"
	"github.com/mkamath/quotedesk/internal/repository"
	"github.com/mkamath/quotedesk/internal/service"
	"github.com/mkamath/quotedesk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	quoteRepo := repository.NewQuoteRepository(database)
	enquiryRepo := repository.NewEnquiryRepository(database)
	memberRepo := repository.NewMemberRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	invoiceRepo := repository.NewInvoiceRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	quoteCache := cache.New(cfg.Redis, log)

	files, err := storage.NewFileStore(cfg.Quotes.UploadDir, cfg.Quotes.UploadBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file store")
	}

	exporter := excel.NewExporter()
	importer := excel.NewImporter()
	pdfGenerator := pdf.NewGenerator()

	quoteService := service.NewQuoteService(quoteRepo, enquiryRepo, notificationRepo, quoteCache, files, exporter, importer, cfg, log)
	enquiryService := service.NewEnquiryService(enquiryRepo, memberRepo)
	memberService := service.NewMemberService(memberRepo, files)
	orderService := service.NewOrderService(orderRepo, quoteRepo, notificationRepo, quoteCache, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, pdfGenerator)
	notificationService := service.NewNotificationService(notificationRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(quoteService, enquiryService, memberService, orderService, invoiceService, notificationService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.Quotes.UploadDir, cfg.Quotes.UploadBaseURL)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting quotes service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
