// Command hallgated wires a serial hall-sensor stream through the core
// pipeline into a telemetry store, printing ActionGate decisions as
// they happen. Flag layout follows cmd/radar: port name, profile name,
// sidecar overlay path, and a database path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hallgate/hallgated/internal/gate"
	"github.com/hallgate/hallgated/internal/gateconfig"
	"github.com/hallgate/hallgated/internal/monitoring"
	"github.com/hallgate/hallgated/internal/pipeline"
	"github.com/hallgate/hallgated/internal/serialport"
	"github.com/hallgate/hallgated/internal/telemetry"
	"github.com/hallgate/hallgated/internal/timeutil"
	"github.com/hallgate/hallgated/internal/version"
)

var (
	portFlag    = flag.String("port", "/dev/ttyACM0", "Serial port to use")
	profileFlag = flag.String("profile", "production", "Configuration profile: production, bench, bench_tolerant")
	sidecarFlag = flag.String("sidecar-config", "", "Path to a JSON sidecar overlay file (optional)")
	dbPathFlag  = flag.String("db-path", "hallgate.db", "Path to the telemetry SQLite database")
	versionFlag = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if *versionFlag {
		fmt.Printf("hallgated %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		log.Fatalf("hallgated: %v", err)
	}
}

func run() error {
	profile, err := gateconfig.ProfileByName(*profileFlag)
	if err != nil {
		return err
	}
	if *sidecarFlag != "" {
		kv, err := gateconfig.LoadSidecarFile(*sidecarFlag)
		if err != nil {
			return err
		}
		profile, err = gateconfig.Overlay(profile, kv)
		if err != nil {
			return err
		}
	}

	db, err := telemetry.Open(*dbPathFlag)
	if err != nil {
		return fmt.Errorf("open telemetry store: %w", err)
	}
	defer db.Close()

	pl := pipeline.New(profile)
	store := telemetry.NewStore(db, pl.SessionID())
	log.Printf("hallgated: session %s, profile %q, port %q", pl.SessionID(), profile.Name, *portFlag)

	port, err := serialport.Open(*portFlag, serialport.DefaultConfig())
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clock timeutil.Clock = timeutil.RealClock{}
	start := clock.Now()
	var eventsThisTick int

	onBytes := func(chunk []byte) {
		for _, res := range pl.FeedBytes(chunk) {
			eventsThisTick++
			for _, t := range res.TilesEmitted {
				store.RecordTile(t, res.Compass, res.Movement)
			}
		}

		elapsed := clock.Since(start)
		nowMs := uint64(elapsed.Milliseconds())

		out := pl.Tick(pipeline.TickInput{
			WallTimeS:       elapsed.Seconds(),
			NowMs:           nowMs,
			EventsThisBatch: eventsThisTick,
		})
		eventsThisTick = 0

		store.RecordGateDecision(nowMs, out.Gate)
		for _, entry := range out.Gate.Logs {
			monitoring.Logf("%s %s", entry.Event, formatFields(entry.Fields))
		}
		if out.Gate.Allowed {
			log.Printf("ACTION: state=%s decision=%s", out.Gate.State, out.Gate.Decision)
		}
	}

	if err := port.Run(ctx, onBytes); err != nil {
		return fmt.Errorf("serial run: %w", err)
	}

	dbg := pl.Debug()
	store.RecordRejectCounts(&dbg.EventCounters)
	return nil
}

func formatFields(fields []gate.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Key + "=" + f.Value
	}
	return strings.Join(parts, " ")
}
