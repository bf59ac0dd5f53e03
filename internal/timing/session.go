package timing

// Session holds the reference timing data the dashboard ships with
type Session struct {
	Laps           []Lap                `json:"laps"`
	PersonalBest   [SectorCount]float64 `json:"personalBest"`
	FastestOnTrack [SectorCount]float64 `json:"fastestOnTrack"`
	Leaderboard    []Entry              `json:"leaderboard"`
}

func DefaultSession() Session {
	return Session{
		Laps: []Lap{
			{Number: 3, Sectors: [SectorCount]float64{28.432, 32.145, 29.876}},
			{Number: 2, Sectors: [SectorCount]float64{28.5, 32.2, 30.1}},
			{Number: 1, Sectors: [SectorCount]float64{28.6, 32.4, 30.3}},
		},
		PersonalBest:   [SectorCount]float64{28.432, 32.305, 29.876},
		FastestOnTrack: [SectorCount]float64{28.9, 32.0, 29.85},
		Leaderboard:    DefaultLeaderboard(),
	}
}

func DefaultLeaderboard() []Entry {
	return []Entry{
		{1, "Piastri", "0.0s"},
		{2, "Verstappen", "1.2s"},
		{3, "Leclerc", "2.3s"},
		{4, "Russell", "3.1s"},
		{5, "Norris", "4.0s"},
		{6, "Hamilton", "5.2s"},
		{7, "Alonso", "6.5s"},
		{8, "Sainz", "7.0s"},
		{9, "Stroll", "7.9s"},
		{10, "Albon", "8.8s"},
		{11, "Gasly", "9.3s"},
		{12, "Ocon", "10.1s"},
		{13, "Lawson", "11.2s"},
		{14, "Hadjar", "12.0s"},
		{15, "Doohan", "13.3s"},
		{16, "Bortoleto", "14.0s"},
		{17, "Bearman", "14.8s"},
		{18, "Colapinto", "15.5s"},
		{19, "Antonelli", "16.2s"},
		{20, "Hülkenberg", "17.0s"},
	}
}

// LapClasses classifies every lap of the session, most recent first
func (s Session) LapClasses() [][SectorCount]SectorClass {
	out := make([][SectorCount]SectorClass, len(s.Laps))
	for i, lap := range s.Laps {
		out[i] = ClassifyLap(lap, s.PersonalBest, s.FastestOnTrack)
	}
	return out
}
