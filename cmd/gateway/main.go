package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/certempire/certportal/internal/api/http"
	"github.com/certempire/certportal/internal/auth"
	"github.com/certempire/certportal/internal/commerce"
	"github.com/certempire/certportal/internal/config"
	"github.com/certempire/certportal/internal/content"
	"github.com/certempire/certportal/internal/db"
	"github.com/certempire/certportal/internal/practice"
	"github.com/certempire/certportal/internal/purchases"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	progress := practice.NewSQLStore(dbh)
	files := content.NewSQLSource(dbh)
	owned := purchases.NewStore(dbh)

	// --- Commerce proxy ---
	sites := map[string]commerce.Site{}
	for name, s := range cfg.Sites {
		sites[name] = commerce.Site{
			BaseURL:        s.BaseURL,
			ConsumerKey:    s.ConsumerKey,
			ConsumerSecret: s.ConsumerSecret,
		}
	}
	wc := commerce.NewClient(sites)

	// --- Auth (session mirror of the WordPress login) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.WPTokenSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Webhook-Secret"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/session", auth.ExchangeHandler(authSvc))
	r.Post("/webhooks/purchase", api.PurchaseWebhookHandler(owned, cfg.WebhookSecretHash))

	// Protected portal API
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/practice", func(sr chi.Router) {
			sr.Get("/resume", api.ResumeHandler(progress))
			sr.Get("/files", api.ListPracticeFilesHandler(owned))
			sr.Get("/files/{fileID}", api.GetPracticeFileHandler(files))
			sr.Get("/files/{fileID}/progress", api.GetProgressHandler(progress))
			sr.Put("/files/{fileID}/progress", api.PutProgressHandler(progress))
		})

		pr.Route("/store", func(sr chi.Router) {
			sr.Get("/orders", api.ListOrdersHandler(wc, cfg.DefaultSite))
			sr.Get("/orders/{orderID}", api.GetOrderHandler(wc, cfg.DefaultSite))
			sr.Get("/downloads", api.ListDownloadsHandler(wc, cfg.DefaultSite))
			sr.Get("/customer", api.GetCustomerHandler(wc, cfg.DefaultSite))
			sr.Put("/customer", api.UpdateCustomerHandler(wc, cfg.DefaultSite))
			sr.Post("/customer/password", api.SetPasswordHandler(wc, cfg.DefaultSite))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, site=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.DefaultSite)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
