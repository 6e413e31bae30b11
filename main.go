package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/activity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/session"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/web"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== StudyHub ===")

	config.Load(".env")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Independent modules first, then dependent modules.
	app.Register(identity.NewModule())
	app.Register(session.NewModule())
	app.Register(activity.NewModule()) // consumes identity and forum events
	app.Register(forum.NewModule())    // depends on identity
	app.Register(web.NewModule())      // depends on all of the above

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	addr := config.GetEnvAsString("HTTP_ADDR", ":3000")

	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("Database: %s", database.LoadConfig().Describe())
	log.Println("")
	log.Printf("Routes (%s):", addr)
	log.Println("  GET    /                 - Rooms matching ?q=, topics, recent messages")
	log.Println("  GET    /login            - Login form")
	log.Println("  POST   /login            - Sign in (username, password)")
	log.Println("  GET    /logout           - Sign out")
	log.Println("  GET    /register         - Registration form")
	log.Println("  POST   /register         - Create account (username, password1, password2)")
	log.Println("  GET    /profile/:pk      - User profile")
	log.Println("  GET    /room/:pk         - Room with messages and participants")
	log.Println("  POST   /room/:pk         - Post a message (body)")
	log.Println("  GET    /create-room      - Room form")
	log.Println("  POST   /create-room      - Open a room (topic, name, description)")
	log.Println("  GET    /topics           - Topics matching ?q=")
	log.Println("  GET    /activity         - Recent activity")
	log.Println("  GET    /health           - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}
