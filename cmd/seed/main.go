package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/doi-dashboard/internal/dataset"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Generate and load the sample inventory snapshot",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write the deterministic sample snapshot to a CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Usage:   "Output CSV path",
						Value:   "./data/days_of_inventory_200_products.csv",
						EnvVars: []string{"SEED_OUTPUT_FILE"},
					},
					&cli.IntFlag{
						Name:    "size",
						Usage:   "Number of records to generate",
						Value:   200,
						EnvVars: []string{"SEED_SAMPLE_SIZE"},
					},
				},
				Action: runGenerate,
			},
			{
				Name:  "load",
				Usage: "Load a snapshot CSV into the postgres inventory_snapshot table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Snapshot CSV to load",
						Value:   "./data/days_of_inventory_200_products.csv",
						EnvVars: []string{"SEED_INPUT_FILE"},
					},
				},
				Action: runLoad,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	outPath := c.String("out")
	size := c.Int("size")

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	records := dataset.GenerateSample(size, time.Now().UTC())
	if err := dataset.Validate(records); err != nil {
		return fmt.Errorf("generated snapshot is invalid: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := dataset.WriteCSV(out, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	log.Printf("wrote %d records to %s", len(records), outPath)
	return nil
}
