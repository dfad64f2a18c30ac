package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"todo-list-backend/internal/config"
	"todo-list-backend/internal/db"
	"todo-list-backend/internal/todos"
)

func main() {
	cfg := config.Load()

	var store todos.Store
	if cfg.HasDB() {
		database, err := db.Connect(cfg.ConnString())
		if err != nil {
			log.Fatal("failed to connect DB: ", err)
		}
		defer database.Close()

		if err := db.EnsureSchema(database); err != nil {
			log.Fatal("failed to ensure schema: ", err)
		}
		log.Println("connected to PostgreSQL")

		store = todos.NewPostgresStore(database)
	} else {
		log.Println("no DB_HOST set, using in-memory store (state is lost on restart)")
		store = todos.NewMemoryStore()
	}

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	todos.Routes(mux, store)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Println("API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
