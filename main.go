package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fellowtools/fellow-mcp/internal/fellow"
	"github.com/fellowtools/fellow-mcp/internal/server"
	"github.com/fellowtools/fellow-mcp/internal/storage"
	syncer "github.com/fellowtools/fellow-mcp/internal/sync"
)

func main() {
	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "8081", "HTTP port (only used with --transport http)")
	dbPath := flag.String("db-path", storage.DefaultPath(), "Path to the SQLite cache database")
	flag.Parse()

	// Optional .env beside the binary; real env vars win.
	godotenv.Load()

	apiKey := os.Getenv("FELLOW_API_KEY")
	if apiKey == "" {
		log.Fatal("FELLOW_API_KEY is not set")
	}
	workspace := os.Getenv("FELLOW_WORKSPACE")
	if workspace == "" {
		log.Fatal("FELLOW_WORKSPACE is not set")
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open cache store: %v", err)
	}
	defer store.Close()

	client := fellow.New(workspace, apiKey)
	srv := server.New(store, syncer.New(client, store))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transport {
	case "stdio":
		log.Printf("Fellow MCP server starting (stdio), cache at %s", store.Path())
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "http":
		addr := ":" + *port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		log.Printf("Fellow MCP server listening on %s", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport: %s (use stdio or http)", *transport)
	}
}
