package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-service/portal-service/config"
	"social-service/portal-service/handlers"
	"social-service/portal-service/identity"
	"social-service/portal-service/logging"
	"social-service/portal-service/repositories"
	"social-service/portal-service/repositories/memory"
	"social-service/portal-service/services"
)

// stores holds one implementation of every repository the services use.
type stores struct {
	petitions      services.PetitionRepository
	projects       services.ProjectRepository
	students       services.StudentRepository
	users          services.UserRepository
	administrators services.AdministratorRepository
	faculties      services.FacultyRepository
	careers        services.CareerRepository
	notifications  services.NotificationRepository
	close          func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Using the in-memory store, data is lost on restart")
		m := memory.NewStore()
		return &stores{
			petitions:      m.Petitions(),
			projects:       m.Projects(),
			students:       m.Students(),
			users:          m.Users(),
			administrators: m.Administrators(),
			faculties:      m.Faculties(),
			careers:        m.Careers(),
			notifications:  m.Notifications(),
			close:          func() {},
		}, nil
	}

	client, err := repositories.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDBName)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	if err := repositories.EnsureIndexes(indexCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", cfg.MongoDBName)

	return &stores{
		petitions:      repositories.NewPetitionRepository(db),
		projects:       repositories.NewProjectRepository(db),
		students:       repositories.NewStudentRepository(db),
		users:          repositories.NewUserRepository(db),
		administrators: repositories.NewAdministratorRepository(db),
		faculties:      repositories.NewFacultyRepository(db),
		careers:        repositories.NewCareerRepository(db),
		notifications:  repositories.NewNotificationRepository(db),
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logging.Logger.WithError(err).Error("Event ID: DB_DISCONNECT_FAILED, Description: Failed to close MongoDB client")
			}
		},
	}, nil
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_FAILED, Description: %v", err)
	}

	if err := logging.InitLogger(logging.Options{
		SystemName: cfg.ServiceName,
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		Stdout:     cfg.LogToStd,
	}); err != nil {
		logging.Logger.Fatalf("Event ID: LOGGER_FAILED, Description: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
	}
	defer st.close()

	notifications := services.NewNotificationService(st.notifications, st.students)
	router := handlers.NewRouter(handlers.Services{
		Verifier:       identity.FromConfig(cfg),
		Auth:           services.NewAuthService(st.users, st.students, st.administrators, cfg.InstitutionalDomain),
		Petitions:      services.NewPetitionService(st.petitions, st.projects, st.students, notifications),
		Projects:       services.NewProjectService(st.projects, st.students),
		Faculties:      services.NewFacultyService(st.faculties),
		Careers:        services.NewCareerService(st.careers, st.faculties),
		Students:       services.NewStudentService(st.students, st.careers),
		Users:          services.NewUserService(st.users, st.careers),
		Administrators: services.NewAdministratorService(st.administrators),
		Notifications:  notifications,
	}, handlers.RouterOptions{
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		LoginRateLimit: cfg.LoginRateLimit,
		LoginRateBurst: cfg.LoginRateBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_STARTED, Description: %s listening on port %s", cfg.ServiceName, cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Event ID: SERVER_STOPPING, Description: Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.WithError(err).Error("Event ID: SERVER_SHUTDOWN_FAILED, Description: Graceful shutdown failed")
	}
}
