// Package timing classifies sector times and picks the leaderboard rows
// shown around the car.
package timing

const SectorCount = 3

// SectorClass is the colour a sector time is shown in
type SectorClass string

const (
	Purple SectorClass = "purple" // fastest on track
	Green  SectorClass = "green"  // personal best
	Yellow SectorClass = "yellow"
)

type Lap struct {
	Number  int                  `json:"lap"`
	Sectors [SectorCount]float64 `json:"sectors"`
}

// Entry is one leaderboard row
type Entry struct {
	Position int    `json:"pos"`
	Driver   string `json:"driver"`
	Gap      string `json:"gap"`
}

// ClassifySector matches a sector time against the track record first and
// the personal best second.
func ClassifySector(time, personalBest, fastestOnTrack float64) SectorClass {
	switch {
	case time <= fastestOnTrack:
		return Purple
	case time < personalBest:
		return Green
	default:
		return Yellow
	}
}

func ClassifyLap(lap Lap, personalBest, fastestOnTrack [SectorCount]float64) [SectorCount]SectorClass {
	var out [SectorCount]SectorClass
	for i, t := range lap.Sectors {
		out[i] = ClassifySector(t, personalBest[i], fastestOnTrack[i])
	}
	return out
}

// Window returns the rows from two places ahead of position to two places
// behind it. Positions outside the board yield a clipped or empty window.
func Window(board []Entry, position int) []Entry {
	start := max(0, position-3)
	end := min(len(board), position+2)
	if start >= end {
		return nil
	}
	return board[start:end]
}
