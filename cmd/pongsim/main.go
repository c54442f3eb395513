// Command pongsim plays a headless bot-versus-bot match and prints the
// goals and rally statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/physics"
	"github.com/ringpong/server/internal/scripting"
	"github.com/ringpong/server/internal/system"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pongsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pongsim", flag.ExitOnError)
	arenaFile := fs.String("arenas", "data/yaml/arena_list.yaml", "arena preset file")
	arenaName := fs.String("arena", "classic", "arena preset")
	scriptDir := fs.String("scripts", "scripts", "bot script directory")
	frames := fs.Int("frames", 60*60, "frames to simulate")
	dt := fs.Float64("dt", 1.0/60, "seconds per frame")
	paddleSpeed := fs.Float64("paddle-speed", 9, "bot paddle speed, units per second")
	limit := fs.Int("limit", 0, "stop at this score (0 = run all frames)")
	verbose := fs.Bool("v", false, "log bot script activity")
	_ = fs.Parse(args)

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer log.Sync()

	arenas, err := data.LoadArenaTable(*arenaFile)
	if err != nil {
		return err
	}
	preset := arenas.Get(*arenaName)
	if preset == nil {
		return fmt.Errorf("unknown arena %q (have %v)", *arenaName, arenas.Names())
	}

	engine, err := scripting.NewEngine(*scriptDir, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	scoreLimit := *limit
	if scoreLimit <= 0 {
		scoreLimit = *frames + 1
	}
	m, err := world.NewMatch("SIM", preset, scoreLimit)
	if err != nil {
		return err
	}
	m.Seats[physics.Left] = world.Seat{Name: "left-bot", Bot: true, Ready: true}
	m.Seats[physics.Right] = world.Seat{Name: "right-bot", Bot: true, Ready: true}
	m.Start()

	step := *paddleSpeed * *dt
	for f := 0; f < *frames && m.Phase == world.PhasePlaying; f++ {
		system.MoveBot(m, physics.Left, engine, step)
		system.MoveBot(m, physics.Right, engine, step)

		ev, err := m.Advance(*dt)
		if err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		if ev == nil {
			continue
		}
		m.Credit(*ev)
		fmt.Printf("%8.2fs  goal for %-5s  %d - %d\n",
			float64(f+1)*(*dt), world.PointTo(*ev), m.Score[physics.Left], m.Score[physics.Right])
	}

	fmt.Printf("\n%s arena, %d frames\n", preset.Name, m.Ticks)
	fmt.Printf("score          %d - %d\n", m.Score[physics.Left], m.Score[physics.Right])
	fmt.Printf("longest rally  %d hits\n", m.LongestRally)
	fmt.Printf("top speed      %.2f\n", m.TopSpeed)
	return nil
}
