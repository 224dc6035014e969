package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

var errHelp = errors.New("help provided")

type petitionMigrator interface {
	MigrateLegacyStatus(ctx context.Context, now time.Time) (approved, pending int64, err error)
	BackfillEnrollmentKeys(ctx context.Context) (updated, skipped int64, err error)
}

type studentRoleMigrator interface {
	MigrateMissingRoles(ctx context.Context) (int64, error)
}

type tokenSigner interface {
	Sign(id models.Identity, ttl time.Duration) (string, error)
}

type commandLine struct {
	out           io.Writer
	students      *services.StudentService
	users         *services.UserService
	migrator      petitionMigrator
	roles         studentRoleMigrator
	ensureIndexes func(ctx context.Context) error
	signer        tokenSigner
	now           func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  set-admin -email EMAIL            - grant administrator role to a student or user")
	fmt.Fprintln(cli.out, "  list-students                     - print every registered student")
	fmt.Fprintln(cli.out, "  migrate-petition-status           - convert legacy boolean statuses and backfill enrollment keys")
	fmt.Fprintln(cli.out, "  migrate-student-role              - set the student role on students stored without one")
	fmt.Fprintln(cli.out, "  ensure-indexes                    - create the database indexes")
	fmt.Fprintln(cli.out, "  issue-token -email EMAIL [-ttl D] - sign a portal token (requires JWT_SECRET)")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setAdminCmd := flag.NewFlagSet("set-admin", flag.ContinueOnError)
	setAdminEmail := setAdminCmd.String("email", "", "Email of the student or user to promote.")

	issueTokenCmd := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	issueTokenEmail := issueTokenCmd.String("email", "", "Email carried by the token.")
	issueTokenName := issueTokenCmd.String("name", "", "Display name carried by the token.")
	issueTokenTTL := issueTokenCmd.Duration("ttl", time.Hour, "Token lifetime.")

	switch args[1] {
	case "set-admin":
		if err := setAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setAdminEmail == "" {
			setAdminCmd.Usage()
			return errHelp
		}
		return cli.setAdmin(ctx, *setAdminEmail)
	case "list-students":
		return cli.listStudents(ctx)
	case "migrate-petition-status":
		return cli.migratePetitionStatus(ctx)
	case "migrate-student-role":
		return cli.migrateStudentRole(ctx)
	case "ensure-indexes":
		if err := cli.ensureIndexes(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "indexes ready")
		return nil
	case "issue-token":
		if err := issueTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *issueTokenEmail == "" {
			issueTokenCmd.Usage()
			return errHelp
		}
		return cli.issueToken(*issueTokenEmail, *issueTokenName, *issueTokenTTL)
	default:
		cli.printUsage()
		return errHelp
	}
}

// setAdmin promotes the student owning email, falling back to a user record.
func (cli *commandLine) setAdmin(ctx context.Context, email string) error {
	err := cli.students.SetRole(ctx, email, models.RoleAdministrator)
	if err == nil {
		fmt.Fprintf(cli.out, "student %s is now an administrator\n", email)
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return err
	}

	err = cli.users.SetRole(ctx, email, models.RoleAdministrator)
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		return errors.Errorf("no student or user with email %s", email)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s is now an administrator\n", email)
	return nil
}

func (cli *commandLine) listStudents(ctx context.Context) error {
	students, err := cli.students.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCARNET\tNAME\tEMAIL\tROLE\tHOURS")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", s.ID.Hex(), s.Carnet, s.Name, s.Email, s.Role, s.Hours)
	}
	return tw.Flush()
}

func (cli *commandLine) migratePetitionStatus(ctx context.Context) error {
	now := time.Now().UTC()
	if cli.now != nil {
		now = cli.now()
	}
	approved, pending, err := cli.migrator.MigrateLegacyStatus(ctx, now)
	if err != nil {
		return errors.Wrap(err, "migrate petition status")
	}
	updated, skipped, err := cli.migrator.BackfillEnrollmentKeys(ctx)
	if err != nil {
		return errors.Wrap(err, "backfill enrollment keys")
	}
	fmt.Fprintf(cli.out, "approved: %d, pending: %d, keyed: %d, skipped duplicates: %d\n", approved, pending, updated, skipped)
	return nil
}

func (cli *commandLine) migrateStudentRole(ctx context.Context) error {
	updated, err := cli.roles.MigrateMissingRoles(ctx)
	if err != nil {
		return errors.Wrap(err, "migrate student role")
	}
	fmt.Fprintf(cli.out, "students given the %s role: %d\n", models.RoleStudent, updated)
	return nil
}

func (cli *commandLine) issueToken(email, name string, ttl time.Duration) error {
	if cli.signer == nil {
		return errors.New("JWT_SECRET is not configured")
	}
	token, err := cli.signer.Sign(models.Identity{Subject: email, Email: email, Name: name}, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
