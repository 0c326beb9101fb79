// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/coursemail-backend/internal/controller"
	"github.com/unclebandit/coursemail-backend/internal/db"
	"github.com/unclebandit/coursemail-backend/internal/handler"
	"github.com/unclebandit/coursemail-backend/internal/mailer"
	"github.com/unclebandit/coursemail-backend/internal/queue"
	"github.com/unclebandit/coursemail-backend/internal/repository"
	"github.com/unclebandit/coursemail-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	logRepo := &repository.EmailLogRepository{DB: db.DB}
	prefRepo := &repository.PreferenceRepository{DB: db.DB}
	templateRepo := &repository.TemplateRepository{DB: db.DB}

	templates := service.NewTemplateService(templateRepo, envOr("TEMPLATE_DIR", "templates"))

	smtpPort, _ := strconv.Atoi(envOr("EMAIL_PORT", "587"))
	transport := mailer.NewSMTPSender(
		os.Getenv("EMAIL_HOST"),
		smtpPort,
		os.Getenv("EMAIL_SECURE") == "true",
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASSWORD"),
		os.Getenv("EMAIL_FROM"),
	)

	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		publisher, err := queue.NewAMQPPublisher(amqpURL)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ:", err)
		}
		defer publisher.Close()
		q = publisher
	} else {
		q = queue.NewInMemoryQueue()
	}

	emailService := &service.EmailService{
		Templates:         templates,
		Logs:              logRepo,
		Prefs:             prefRepo,
		Transport:         transport,
		Queue:             q,
		FromAddress:       os.Getenv("EMAIL_FROM"),
		BaseURL:           envOr("BASE_URL", "http://localhost:8080"),
		FrontendURL:       envOr("FRONTEND_URL", "http://localhost:3000"),
		UnsubscribeSecret: os.Getenv("UNSUBSCRIBE_SECRET"),
	}

	// Without AMQP the delivery jobs run in-process.
	if _, ok := q.(*queue.InMemoryQueue); ok {
		queue.StartEmailSendSubscriber(q, emailService)
	}

	trackingService := &service.TrackingService{Logs: logRepo}

	emailHandler := handler.NewEmailHandler(emailService, templates)
	trackingController := controller.NewTrackingController(trackingService, emailService)

	r := chi.NewRouter()

	// Email routes
	r.Post("/emails/send", emailHandler.SendEmailHandler)
	r.Post("/emails/verification", emailHandler.SendVerificationHandler)
	r.Post("/emails/enrollment", emailHandler.SendEnrollmentHandler)
	r.Post("/emails/completion", emailHandler.SendCompletionHandler)
	r.Post("/emails/forum", emailHandler.SendForumHandler)
	r.Get("/emails/{id}", emailHandler.GetEmailStatusHandler)

	// Preference routes
	r.Get("/preferences/{email}", emailHandler.GetPreferencesHandler)
	r.Put("/preferences/{email}", emailHandler.UpdatePreferenceHandler)
	r.Post("/preferences/unsubscribe", emailHandler.UnsubscribeHandler)

	// Analytics routes
	r.Get("/analytics/emails", emailHandler.AnalyticsHandler)
	r.Get("/analytics/emails/daily", emailHandler.DailyStatsHandler)

	// Template routes
	r.Get("/templates/{name}", emailHandler.GetTemplateHandler)
	r.Put("/templates/{name}", emailHandler.UpsertTemplateHandler)

	// Tracking routes, hit by mail clients
	r.Get("/track/open/{id}", trackingController.OpenHandler)
	r.Get("/track/click/{id}", trackingController.ClickHandler)
	r.Get("/unsubscribe", trackingController.UnsubscribeHandler)

	port := envOr("PORT", "8080")
	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
