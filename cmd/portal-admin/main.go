package main

import (
	"context"
	"os"

	"social-service/portal-service/config"
	"social-service/portal-service/identity"
	"social-service/portal-service/logging"
	"social-service/portal-service/repositories"
	"social-service/portal-service/services"
)

func main() {
	cfg, err := config.Load(".env")
	errAndDie(err)
	errAndDie(logging.InitLogger(logging.Options{
		SystemName: "portal-admin",
		Level:      cfg.LogLevel,
		Stdout:     true,
	}))

	ctx := context.Background()
	client, err := repositories.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	errAndDie(err)
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDBName)

	studentRepo := repositories.NewStudentRepository(db)
	cli := commandLine{
		out:      os.Stdout,
		students: services.NewStudentService(studentRepo, repositories.NewCareerRepository(db)),
		users:    services.NewUserService(repositories.NewUserRepository(db), repositories.NewCareerRepository(db)),
		migrator: repositories.NewPetitionRepository(db),
		roles:    studentRepo,
		ensureIndexes: func(ctx context.Context) error {
			return repositories.EnsureIndexes(ctx, db)
		},
	}
	if cfg.JWTSecret != "" {
		cli.signer = identity.NewJWTVerifier(cfg.JWTSecret)
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logging.Logger.Errorf("Event ID: ADMIN_COMMAND_FAILED, Description: %v", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logging.Logger.Fatal(err)
	}
}
