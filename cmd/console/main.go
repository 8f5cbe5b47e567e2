// main.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// cmd/console is a deliberately minimal driver that exercises the
// engine package end to end: it plays a configurable number of
// robot-vs-robot games to completion and reports aggregate results.
// Grounded directly on the teacher's main/main.go (simulateGame,
// flag-driven dictionary/game-count selection, win/loss tallying),
// generalized from the teacher's RobotWrapper/State to this engine's
// Robot/Game types and reporting through playoutstats.go's
// PlayoutStats rather than a pair of bare int counters.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package main

import (
	"flag"
	"fmt"
	"os"

	engine "github.com/xskrafl/engine"
	"github.com/xskrafl/engine/internal/config"
	"github.com/xskrafl/engine/internal/logging"
)

var consoleLog = logging.Get("console")

// playGame plays one robot-vs-robot game to completion and returns
// each player's final score, mirroring the teacher's simulateGame.
func playGame(ld *engine.LetterDistribution, kwg *engine.KWG, klv *engine.KLV, seed uint64, robotA, robotB engine.Robot, verbose bool) (scoreA, scoreB int) {
	game := engine.NewGame(ld, kwg, klv, seed)
	game.SetPlayerNames("Robot A", "Robot B")
	if verbose {
		fmt.Println(game)
	}
	for i := 0; !game.IsOver(); i++ {
		var robot engine.Robot
		if i%2 == 0 {
			robot = robotA
		} else {
			robot = robotB
		}
		move := robot.PickMove(game)
		game.PlayMove(move)
		if verbose {
			fmt.Println(game)
		}
	}
	if verbose {
		fmt.Println("Game over!")
	}
	return game.Scores[0], game.Scores[1]
}

func main() {
	confPath := flag.String("config", "config.toml", "Path to a TOML configuration file")
	envPath := flag.String("env", ".env", "Path to a .env file for environment overrides")
	num := flag.Int("n", 10, "Number of games to simulate")
	quiet := flag.Bool("q", false, "Suppress per-move board output")
	flag.Parse()

	cfg, err := config.Load(*confPath, *envPath)
	if err != nil {
		consoleLog.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	ld := engine.EnglishDistribution
	kwg, err := engine.LoadKWG(ld, cfg.Lex+".kwg")
	if err != nil {
		consoleLog.Errorf("failed to load lexicon %q: %v", cfg.Lex, err)
		os.Exit(1)
	}
	klv, err := engine.LoadKLV(ld, cfg.Lex+".klv")
	if err != nil {
		consoleLog.Errorf("failed to load leave values for %q: %v", cfg.Lex, err)
		os.Exit(1)
	}

	robotA := &engine.HighScoreRobot{}
	robotB := &engine.HighScoreRobot{}

	stats := engine.NewPlayoutStats()
	seed := cfg.RNGSeed
	for i := 0; i < *num; i++ {
		scoreA, scoreB := playGame(ld, kwg, klv, seed+uint64(i), robotA, robotB, !*quiet)
		stats.RecordGame(scoreA, scoreB, true)
	}

	wins, losses, ties, _ := stats.Record()
	p1, p2 := stats.ScoreStats()
	fmt.Printf(
		"%d games were played using the %q lexicon.\n"+
			"Robot A won %d games, Robot B won %d games, %d games were draws.\n"+
			"Robot A mean score %.1f, Robot B mean score %.1f.\n",
		stats.TotalGames(), cfg.Lex, wins, losses, ties, p1.Mean, p2.Mean,
	)
}
