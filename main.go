package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vitrin/auth"
	"vitrin/cart"
	"vitrin/catalog"
	"vitrin/orders"
	"vitrin/ratelim"
	"vitrin/rdx"
	"vitrin/realtime"
	"vitrin/routes"
	"vitrin/store"
	"vitrin/store/mongostore"
	"vitrin/telemetry"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

type repositories struct {
	products store.ProductRepository
	carts    store.CartRepository
	orders   store.OrderRepository
	users    store.UserRepository
}

// buildRepositories picks the storage backend. The default is the in-memory
// tables seeded with the demo catalog; STORE_BACKEND=mongo switches to
// MongoDB without touching any service logic.
func buildRepositories(ctx context.Context) (repositories, func(), error) {
	if os.Getenv("STORE_BACKEND") == "mongo" {
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		dbName := os.Getenv("MONGODB_DATABASE")
		if dbName == "" {
			dbName = "vitrin"
		}

		ms, err := mongostore.Connect(ctx, uri, dbName)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := ms.Seed(ctx, store.SeedProducts(), store.SeedUsers()); err != nil {
			return repositories{}, nil, err
		}
		cleanup := func() {
			if err := ms.Close(context.Background()); err != nil {
				log.Printf("Mongo disconnect error: %v", err)
			}
		}
		return repositories{
			products: ms.Products(),
			carts:    ms.Carts(),
			orders:   ms.Orders(),
			users:    ms.Users(),
		}, cleanup, nil
	}

	return repositories{
		products: store.NewProductStore(store.SeedProducts()),
		carts:    store.NewCartStore(),
		orders:   store.NewOrderStore(),
		users:    store.NewUserStore(store.SeedUsers()),
	}, func() {}, nil
}

func setupRouter(repos repositories, hub *realtime.Hub, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	catalogSvc := catalog.NewService(repos.products)
	cartSvc := cart.NewService(repos.carts, catalogSvc)
	orderSvc := orders.NewService(repos.orders, cartSvc, catalogSvc, hub)
	authSvc := auth.NewService(repos.users)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, auth.NewHandler(authSvc, repos.users), rateLimiter)
	routes.AddProductRoutes(router, catalog.NewHandler(catalogSvc))
	routes.AddCartRoutes(router, cart.NewHandler(cartSvc))
	routes.AddOrderRoutes(router, orders.NewHandler(orderSvc), rateLimiter)
	routes.AddRealtimeRoutes(router, hub)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	shutdownTracing, err := telemetry.Init("vitrin")
	if err != nil {
		log.Fatalf("❌ Telemetry init failed: %v", err)
	}

	rdx.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	repos, cleanup, err := buildRepositories(ctx)
	cancel()
	if err != nil {
		log.Fatalf("❌ Store init failed: %v", err)
	}

	rateLimiter := ratelim.NewRateLimiter()

	hub := realtime.NewHub()
	go hub.Run()

	router := setupRouter(repos, hub, rateLimiter)

	// apply middleware: CORS → security headers → logging → tracing → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(otelhttp.NewHandler(router, "http.server"))

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down update hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	cleanup()
	if err := shutdownTracing(context.Background()); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
