package league

// Seed identifiers for the two fixed team slots.
const (
	TeamIDHome = "team1"
	TeamIDAway = "team2"
)

// DefaultSnapshot is the embedded dataset the tracker boots from when no
// saved document exists, and the state a league reset restores. Every
// cumulative counter starts at zero and the match list starts empty.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Teams: []Team{
			{ID: TeamIDHome, Name: "Atlantis FC", Coach: "Yassine Kacem"},
			{ID: TeamIDAway, Name: "Poseidon United", Coach: "Mehdi Trabelsi"},
		},
		Players: []Player{
			{ID: "player-seed-01", Name: "Omar Ben Salah", TeamID: TeamIDHome},
			{ID: "player-seed-02", Name: "Karim Haddad", TeamID: TeamIDHome},
			{ID: "player-seed-03", Name: "Nizar Jebali", TeamID: TeamIDHome},
			{ID: "player-seed-04", Name: "Sami Gharbi", TeamID: TeamIDHome},
			{ID: "player-seed-05", Name: "Walid Mansour", TeamID: TeamIDAway},
			{ID: "player-seed-06", Name: "Aymen Sfaxi", TeamID: TeamIDAway},
			{ID: "player-seed-07", Name: "Hamza Riahi", TeamID: TeamIDAway},
			{ID: "player-seed-08", Name: "Bilel Chatti", TeamID: TeamIDAway},
		},
		Matches: []Match{},
	}
}
