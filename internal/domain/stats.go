package domain

// ReachTiles are the milestone tiles counted across a run.
var ReachTiles = [...]int{1024, 2048, 4096, 8192}

// Episode summarises one finished game.
type Episode struct {
	Score   int         `json:"score"`
	Moves   int         `json:"moves"`
	Won     bool        `json:"won"`
	MaxTile int         `json:"max_tile"`
	Tiles   map[int]int `json:"tiles,omitempty"`
}

// RunStats accumulates episodes. It is a value: Record returns the updated copy
// and never touches the receiver.
type RunStats struct {
	Runs       int         `json:"runs"`
	Wins       int         `json:"wins"`
	TotalScore int64       `json:"total_score"`
	MinScore   int         `json:"min_score"`
	MaxScore   int         `json:"max_score"`
	BestTile   int         `json:"best_tile"`
	Reached    map[int]int `json:"reached,omitempty"`
}

// Record folds an episode into the stats.
func (s RunStats) Record(e Episode) RunStats {
	next := s
	next.Reached = make(map[int]int, len(ReachTiles))
	for k, v := range s.Reached {
		next.Reached[k] = v
	}

	if next.Runs == 0 || e.Score < next.MinScore {
		next.MinScore = e.Score
	}
	if e.Score > next.MaxScore {
		next.MaxScore = e.Score
	}
	next.Runs++
	next.TotalScore += int64(e.Score)
	if e.Won {
		next.Wins++
	}
	if e.MaxTile > next.BestTile {
		next.BestTile = e.MaxTile
	}
	for _, tile := range ReachTiles {
		if n := e.Tiles[tile]; n > 0 {
			next.Reached[tile] += n
		}
	}
	return next
}

// Merge combines two accumulators, as when a stored record meets a new batch.
func (s RunStats) Merge(other RunStats) RunStats {
	if other.Runs == 0 {
		return s
	}
	if s.Runs == 0 {
		return other.clone()
	}
	next := s.clone()
	next.Runs += other.Runs
	next.Wins += other.Wins
	next.TotalScore += other.TotalScore
	if other.MinScore < next.MinScore {
		next.MinScore = other.MinScore
	}
	if other.MaxScore > next.MaxScore {
		next.MaxScore = other.MaxScore
	}
	if other.BestTile > next.BestTile {
		next.BestTile = other.BestTile
	}
	for k, v := range other.Reached {
		next.Reached[k] += v
	}
	return next
}

func (s RunStats) clone() RunStats {
	next := s
	next.Reached = make(map[int]int, len(s.Reached))
	for k, v := range s.Reached {
		next.Reached[k] = v
	}
	return next
}

// WinRate is wins over runs, 0 before the first run.
func (s RunStats) WinRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Runs)
}

// AverageScore is the mean episode score, 0 before the first run.
func (s RunStats) AverageScore() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Runs)
}

// TrackTiles raises counts to the number of each tile ≥ minValue on board.
// It keeps the highest count seen, so calling it after every move records
// the most copies of a tile that were ever on the board at once.
func TrackTiles(counts map[int]int, board Board, minValue int) map[int]int {
	if counts == nil {
		counts = make(map[int]int)
	}
	for value, n := range board.TileCounts(minValue) {
		if n > counts[value] {
			counts[value] = n
		}
	}
	return counts
}
