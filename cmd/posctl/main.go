package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/MikeMC777/restaurant-pos/internal/auth"
	"github.com/MikeMC777/restaurant-pos/internal/config"
	"github.com/MikeMC777/restaurant-pos/internal/db"
	"github.com/MikeMC777/restaurant-pos/internal/logx"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/order"
)

func main() {
	cfg := config.Load()
	logx.New("posctl", cfg.LogLevel, "console")

	if err := newApp(cfg).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("posctl")
	}
}

func newApp(cfg config.Config) *cli.App {
	connect := func(ctx context.Context) (*pgxpool.Pool, error) {
		return db.Connect(ctx, cfg.PostgresDSN, cfg.RetryAttempts, cfg.RetryBaseDelay)
	}

	return &cli.App{
		Name:  "posctl",
		Usage: "operate the restaurant POS database",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply or roll back schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "apply all pending migrations",
						Action: func(*cli.Context) error {
							return db.MigrateUp(cfg.PostgresDSN)
						},
					},
					{
						Name:  "down",
						Usage: "roll back the last migration",
						Action: func(*cli.Context) error {
							return db.MigrateDown(cfg.PostgresDSN)
						},
					},
				},
			},
			{
				Name:  "seed-menu",
				Usage: "load menu items from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "menu YAML file"},
				},
				Action: func(c *cli.Context) error {
					fh, err := os.Open(c.String("file"))
					if err != nil {
						return err
					}
					defer fh.Close()
					items, err := parseMenuFile(fh)
					if err != nil {
						return err
					}
					pool, err := connect(c.Context)
					if err != nil {
						return err
					}
					defer pool.Close()

					repo := menu.NewPGRepo(pool)
					for _, it := range items {
						it.ID = uuid.NewString()
						if err := repo.Create(c.Context, it); err != nil {
							return fmt.Errorf("create %q: %w", it.Name, err)
						}
					}
					log.Info().Int("items", len(items)).Msg("menu seeded")
					return nil
				},
			},
			{
				Name:  "receipt",
				Usage: "print an order receipt, or write it as PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order", Required: true, Usage: "order id"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "PDF output file"},
				},
				Action: func(c *cli.Context) error {
					pool, err := connect(c.Context)
					if err != nil {
						return err
					}
					defer pool.Close()

					o, items, err := order.NewPGRepo(pool).GetByID(c.Context, c.String("order"))
					if err != nil {
						return err
					}
					h := order.Header{Restaurant: cfg.RestaurantName, Location: time.Local}
					out := c.String("out")
					if out == "" {
						fmt.Fprint(c.App.Writer, order.RenderReceipt(h, *o, items))
						return nil
					}
					b, err := order.RenderReceiptPDF(h, *o, items)
					if err != nil {
						return err
					}
					return os.WriteFile(out, b, 0o644)
				},
			},
			{
				Name:  "create-user",
				Usage: "create a staff profile through the auth service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "role", Value: auth.RoleStaff, Usage: "admin, manager or staff"},
				},
				Action: func(c *cli.Context) error {
					in := auth.SignUpInput{
						Email:    c.String("email"),
						Password: c.String("password"),
						FullName: c.String("name"),
						Role:     c.String("role"),
					}
					if err := in.Validate(); err != nil {
						return err
					}
					client, err := auth.Dial(cfg.AuthSvcAddr, cfg.RetryAttempts, cfg.RetryBaseDelay)
					if err != nil {
						return err
					}
					defer client.Close()

					p, err := client.SignUp(c.Context, in)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", p.ProfileID, p.Email, p.Role)
					return nil
				},
			},
		},
	}
}
