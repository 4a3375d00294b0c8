// chessrelay plays chess from a console, a terminal board, a move script,
// or across the network against another chessrelay.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chessrelay/internal/archive"
	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/config"
	"github.com/hailam/chessrelay/internal/console"
	"github.com/hailam/chessrelay/internal/netplay"
	"github.com/hailam/chessrelay/internal/render"
	"github.com/hailam/chessrelay/internal/script"
	"github.com/hailam/chessrelay/internal/storage"
	"github.com/hailam/chessrelay/internal/tui"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stdout)
		return
	}
	if err != nil {
		config.Usage(os.Stderr)
		log.Fatal(err)
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cfg.CPUProfile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The terminal view owns the screen, so it logs nowhere.
	logger := log.New(os.Stderr, "chessrelay: ", log.LstdFlags)
	if cfg.TUI {
		logger.SetOutput(io.Discard)
	}

	if err := run(ctx, cfg, logger); err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	switch cfg.Mode() {
	case config.ModeScript:
		return runScript(cfg, logger)
	case config.ModeExport:
		return runExport(cfg, logger)
	case config.ModeHost:
		peer, err := host(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer peer.Close()
		return play(ctx, cfg, peer, peer, logger)
	case config.ModeJoin:
		peer, err := netplay.Dial(ctx, cfg.Join, board.NewBoard(), logger)
		if err != nil {
			return err
		}
		defer peer.Close()
		log.Printf("joined game %s, playing %s", cfg.Join, peer.Side())
		return play(ctx, cfg, peer, peer, logger)
	default:
		return play(ctx, cfg, console.NewLocal(), nil, logger)
	}
}

func runScript(cfg *config.Config, logger *log.Logger) error {
	game := console.NewLocal()
	r := script.Runner{Out: os.Stdout, Log: logger, Verbose: cfg.Verbose}
	res, err := r.RunFile(cfg.Script, game)
	if err != nil {
		return err
	}
	log.Printf("script: %d applied, %d rejected, %d invalid, fingerprint %08x",
		res.Applied, res.Rejected, res.Invalid, res.Fingerprint)
	return writePNG(cfg, game.Snapshot())
}

func runExport(cfg *config.Config, logger *log.Logger) error {
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.ListGames()
	if err != nil {
		return err
	}
	path, err := exportPath(cfg.Export)
	if err != nil {
		return err
	}
	if err := archive.ExportGames(path, recs, cfg.Workers); err != nil {
		return err
	}
	logger.Printf("exported %d games to %s", len(recs), path)
	return nil
}

// exportPath places a bare file name in the archive directory.
func exportPath(name string) (string, error) {
	if filepath.Base(name) != name {
		return name, nil
	}
	dir, err := storage.GetArchiveDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// host listens on the configured address and prints the game code the
// other player needs.
func host(ctx context.Context, cfg *config.Config, logger *log.Logger) (*netplay.Peer, error) {
	ln, err := net.Listen("tcp4", cfg.Host)
	if err != nil {
		return nil, err
	}
	defer ln.Close()

	addr := ln.Addr().(*net.TCPAddr)
	ip, ok := netip.AddrFromSlice(addr.IP)
	if !ok || ip.Unmap().IsUnspecified() {
		if ip, err = localIPv4(); err != nil {
			return nil, err
		}
	}
	code, err := netplay.EncodeCode(ip, uint16(addr.Port), uint16(cfg.UID))
	if err != nil {
		return nil, err
	}
	fmt.Printf("game code: %s\n", code)
	log.Printf("waiting for a player on %s", addr)

	return netplay.Host(ctx, ln, uint16(cfg.UID), board.NewBoard(), logger)
}

// localIPv4 returns the first non-loopback IPv4 address of this machine.
func localIPv4() (netip.Addr, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return netip.AddrFrom4([4]byte(ip4)), nil
		}
	}
	return netip.Addr{}, errors.New("no IPv4 address to advertise; pass -host with an explicit address")
}

// play runs the console or terminal view over game. Storage is optional:
// without it the save and load commands report an error.
func play(ctx context.Context, cfg *config.Config, game console.Game, peer *netplay.Peer, logger *log.Logger) error {
	store, err := openStorage(cfg)
	if err != nil {
		log.Printf("Warning: game storage unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	if cfg.TUI {
		err = playTUI(ctx, store, game, peer, logger)
	} else {
		err = playConsole(ctx, store, game, peer, logger)
	}
	if err != nil {
		return err
	}
	return writePNG(cfg, game.Snapshot())
}

func playConsole(ctx context.Context, store *storage.Storage, game console.Game, peer *netplay.Peer, logger *log.Logger) error {
	if peer != nil {
		go func() {
			err := peer.Serve(ctx, func(ev netplay.Event) {
				if ev.Header == netplay.MoveFrame {
					fmt.Printf("opponent: %s\n", ev.Move)
				}
			})
			fmt.Printf("connection ended: %v\n", err)
		}()
	}
	return console.New(game, store, os.Stdout, logger).Run(os.Stdin)
}

func playTUI(ctx context.Context, store *storage.Storage, game console.Game, peer *netplay.Peer, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := tui.New(screen, game, store, logger)
	if peer != nil {
		go func() {
			err := peer.Serve(ctx, func(ev netplay.Event) {
				if ev.Header == netplay.MoveFrame {
					app.Refresh("opponent played " + ev.Move.String())
				}
			})
			app.Refresh(fmt.Sprintf("connection ended: %v", err))
		}()
	}
	return app.Run()
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	switch {
	case cfg.InMemory:
		return storage.OpenInMemory()
	case cfg.DB != "":
		return storage.Open(cfg.DB)
	default:
		return storage.NewStorage()
	}
}

func writePNG(cfg *config.Config, b *board.Board) error {
	if cfg.PNG == "" {
		return nil
	}
	f, err := os.Create(cfg.PNG)
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.Size = cfg.PNGSize
	opts.Flip = cfg.Flip
	if err := render.PNG(f, b, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
