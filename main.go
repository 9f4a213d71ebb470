package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	err = newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "music-archive"
	app.Usage = "In-memory artists, albums and songs REST server."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   5001,
			Usage:   "port to run server on",
			EnvVars: []string{"MUSIC_PORT"},
		},
		&cli.StringFlag{
			Name:    "seeds-directory",
			Usage:   "directory holding artists.json, albums.json and songs.json (defaults to the built-in seeds)",
			EnvVars: []string{"MUSIC_SEEDS_DIR"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "log request bodies and other debug output",
			EnvVars: []string{"MUSIC_DEBUG"},
		},
	}
	app.Action = run
	return app
}

func run(ctx *cli.Context) error {
	level := slog.LevelInfo
	if ctx.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := newDatabase(memoryDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var fixtures fs.FS = defaultFixtures()
	if dir := ctx.String("seeds-directory"); dir != "" {
		fixtures = os.DirFS(dir)
	}
	err = loadFixtures(ctx.Context, db, fixtures)
	if err != nil {
		return err
	}

	handler := newServer(db)

	// Start HTTP handler.
	quit := make(chan os.Signal, 2)
	var wg sync.WaitGroup
	wg.Add(1)

	server := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

	go func() {
		defer wg.Done()

		slog.Info("Server is listening", "address", server.Addr)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
			quit <- os.Interrupt
		}
	}()

	signal.Notify(
		quit,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	<-quit

	slog.Info("Server shutting down...")

	go server.Close()

	wg.Wait()
	return nil
}
