// main.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// cmd/server is a deliberately minimal JSON HTTP driver that exercises
// the engine package end to end: a /moves endpoint scores every legal
// play on a submitted board/rack, and a /wordcheck endpoint validates
// words against the loaded lexicon. Grounded on the teacher's
// server.go (HandleMovesRequest's board-decoding and move-scoring
// flow, HandleWordCheckRequest) and go-app/main.go (bearer-token
// auth via ACCESS_KEY, the warmup endpoint, the PORT environment
// variable), generalized from the teacher's Dawg/TileSet/State to
// this engine's KWG/KLV/Board/Rack/MoveList.

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
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"unicode"

	engine "github.com/xskrafl/engine"
	"github.com/xskrafl/engine/internal/config"
	"github.com/xskrafl/engine/internal/logging"
)

var serverLog = logging.Get("server")

// MovesRequest is the incoming /moves request body: a submitted board
// position and rack.
type MovesRequest struct {
	Board []string `json:"board"`
	Rack  string   `json:"rack"`
	Limit int      `json:"limit"`
}

// MoveResponse is one scored move, rendered into a JSON-friendly shape
// rather than marshaling engine.Move directly (which has no
// MarshalJSON method, unlike the teacher's MoveWithScore kludge around
// its own Move interface).
type MoveResponse struct {
	Notation string  `json:"notation"`
	Score    int     `json:"score"`
	Equity   float64 `json:"equity"`
}

// MovesResponse is the /moves response envelope, mirroring the
// teacher's HeaderJson.
type MovesResponse struct {
	Version string         `json:"version"`
	Count   int            `json:"count"`
	Moves   []MoveResponse `json:"moves"`
}

// WordCheckRequest is the incoming /wordcheck request body.
type WordCheckRequest struct {
	Words []string `json:"words"`
}

// wordCheckPair is one (word, found) result, mirroring the teacher's
// WordCheckResultPair.
type wordCheckPair [2]interface{}

// okFalseResponse is returned for a malformed /wordcheck request,
// mirroring the teacher's OK_FALSE_RESPONSE.
var okFalseResponse = map[string]bool{"ok": false}

// decodeBoard fills an empty board from req's row strings: '.' or ' '
// is an empty square, a lowercase letter is a normal tile, an
// uppercase letter is a blank designated as that letter, matching the
// teacher's HandleMovesRequest convention.
func decodeBoard(kwg *engine.KWG, ld *engine.LetterDistribution, rows []string) (*engine.Board, error) {
	if len(rows) != engine.BoardSize {
		return nil, fmt.Errorf("invalid board: must have %d rows", engine.BoardSize)
	}
	board := engine.NewBoard()
	for r, rowString := range rows {
		row := []rune(rowString)
		if len(row) != engine.BoardSize {
			return nil, fmt.Errorf("invalid board row %d: must be %d characters long", r, engine.BoardSize)
		}
		for c, letter := range row {
			if letter == '.' || letter == ' ' {
				continue
			}
			blank := unicode.IsUpper(letter)
			s := string(unicode.ToUpper(letter))
			ml, ok := ld.StringToML(s)
			if !ok {
				return nil, fmt.Errorf("invalid letter %q at %d,%d", letter, r, c)
			}
			if blank {
				ml = engine.Blanked(ml)
			}
			board.SetLetter(r, c, ml)
		}
	}
	if board.NumTiles > 0 {
		sr, sc := board.StartSquare()
		if board.IsEmpty(sr, sc) {
			return nil, fmt.Errorf("the start square must be occupied")
		}
	}
	board.UpdateAllAnchors()
	engine.GenAllCrossSets(kwg, ld, board)
	return board, nil
}

// syntheticBag builds a bag reflecting the tiles not visible on the
// board or in the rack, purely so GenerateMoves can consult
// ExchangeAllowed; a stateless /moves request has no true bag to draw
// from, so this stands in for it the way the teacher's
// exchangeForbidden heuristic did.
func syntheticBag(ld *engine.LetterDistribution, board *engine.Board, rack *engine.Rack) *engine.Bag {
	bag := engine.NewBag(ld, 1)
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			if board.IsEmpty(row, col) {
				continue
			}
			ml := board.GetLetter(row, col)
			if board.Squares[row][col].IsBlank {
				ml = 0
			}
			bag.DrawSpecific(ml, 0)
		}
	}
	for _, ml := range rack.Letters() {
		bag.DrawSpecific(ml, 0)
	}
	return bag
}

func handleMoves(ld *engine.LetterDistribution, kwg *engine.KWG, klv *engine.KLV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MovesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rackRunes := []rune(req.Rack)
		if len(rackRunes) == 0 || len(rackRunes) > engine.RackSize {
			http.Error(w, "Invalid rack.\n", http.StatusBadRequest)
			return
		}
		letters, err := ld.ParseStr(req.Rack, false)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid rack: %v\n", err), http.StatusBadRequest)
			return
		}
		rack := engine.NewRackFromLetters(ld, letters)

		board, err := decodeBoard(kwg, ld, req.Board)
		if err != nil {
			http.Error(w, err.Error()+"\n", http.StatusBadRequest)
			return
		}

		bag := syntheticBag(ld, board, rack)

		moveList := engine.NewMoveList(engine.RecordAll, 256)
		// No real opponent exists for this stateless scoring request, so
		// the shadow pass's endgame adjustment is inapplicable; pass nil.
		engine.GenerateMoves(kwg, klv, board, ld, rack, bag, nil, moveList)
		moves := moveList.Sorted()

		responses := make([]MoveResponse, 0, len(moves))
		for _, m := range moves {
			if m.Type == engine.MoveTypePass {
				continue
			}
			responses = append(responses, MoveResponse{
				Notation: m.String(ld),
				Score:    m.Score,
				Equity:   m.Equity,
			})
		}
		sort.SliceStable(responses, func(i, j int) bool { return responses[i].Score > responses[j].Score })
		if req.Limit > 0 && len(responses) > req.Limit {
			responses = responses[:req.Limit]
		}

		result := MovesResponse{Version: "1.0", Count: len(responses), Moves: responses}
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func handleWordCheck(kwg *engine.KWG, ld *engine.LetterDistribution) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WordCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			json.NewEncoder(w).Encode(okFalseResponse)
			return
		}

		if len(req.Words) == 0 || len(req.Words) > engine.BoardSize+1 {
			json.NewEncoder(w).Encode(okFalseResponse)
			return
		}

		allValid := true
		valid := make([]wordCheckPair, len(req.Words))
		for i, word := range req.Words {
			if len(word) == 0 || len([]rune(word)) > engine.BoardSize {
				json.NewEncoder(w).Encode(okFalseResponse)
				return
			}
			letters, err := ld.ParseStr(word, false)
			found := err == nil && kwg.Find(letters)
			valid[i] = wordCheckPair{word, found}
			if !found {
				allValid = false
			}
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":    allValid,
			"valid": valid,
		})
	}
}

// withAuth wraps next with the bearer-token check the teacher's
// go-app/main.go applied to its handler, skipped entirely if
// authHeader is empty (no ACCESS_KEY configured).
func withAuth(authHeader string, next http.HandlerFunc) http.HandlerFunc {
	if authHeader == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != authHeader {
			http.Error(w, "Authorization header mismatch", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func warmup(w http.ResponseWriter, r *http.Request) {
	serverLog.Info("warmup request received")
}

func main() {
	confPath := os.Getenv("XWSKRAFL_CONFIG")
	if confPath == "" {
		confPath = "config.toml"
	}
	envPath := os.Getenv("XWSKRAFL_ENV")
	if envPath == "" {
		envPath = ".env"
	}

	cfg, err := config.Load(confPath, envPath)
	if err != nil {
		serverLog.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	ld := engine.EnglishDistribution
	kwg, err := engine.LoadKWG(ld, cfg.Lex+".kwg")
	if err != nil {
		serverLog.Errorf("failed to load lexicon %q: %v", cfg.Lex, err)
		os.Exit(1)
	}
	klv, err := engine.LoadKLV(ld, cfg.Lex+".klv")
	if err != nil {
		serverLog.Errorf("failed to load leave values for %q: %v", cfg.Lex, err)
		os.Exit(1)
	}

	var authHeader string
	if accessKey := os.Getenv("ACCESS_KEY"); accessKey != "" {
		authHeader = "Bearer " + accessKey
	}

	http.HandleFunc("/_ah/warmup", warmup)
	http.HandleFunc("/moves", withAuth(authHeader, handleMoves(ld, kwg, klv)))
	http.HandleFunc("/wordcheck", withAuth(authHeader, handleWordCheck(kwg, ld)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverLog.Infof("listening on port %s, lexicon %q", port, cfg.Lex)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		serverLog.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
