package league

import "testing"

func TestTeamValidate_StatInvariants(t *testing.T) {
	t.Parallel()

	team := Team{ID: "team1", Name: "Atlantis FC", Played: 3, Won: 2, Drawn: 1, Lost: 0, Points: 7}
	if err := team.Validate(); err != nil {
		t.Fatalf("expected valid team, got %v", err)
	}

	team.Points = 6
	if err := team.Validate(); err == nil {
		t.Fatalf("expected points invariant violation")
	}

	team.Points = 7
	team.Played = 4
	if err := team.Validate(); err == nil {
		t.Fatalf("expected played invariant violation")
	}
}

func TestSnapshotClone_IsDeep(t *testing.T) {
	t.Parallel()

	original := DefaultSnapshot()
	original.Matches = append(original.Matches, Match{
		ID:      "match-1",
		Scorers: []Scorer{{PlayerID: "player-seed-01", Goals: 1}},
	})

	cloned := original.Clone()
	cloned.Teams[0].Name = "changed"
	cloned.Players[0].Goals = 99
	cloned.Matches[0].Scorers[0].Goals = 99

	if original.Teams[0].Name == "changed" {
		t.Fatalf("clone shares team backing array")
	}
	if original.Players[0].Goals == 99 {
		t.Fatalf("clone shares player backing array")
	}
	if original.Matches[0].Scorers[0].Goals == 99 {
		t.Fatalf("clone shares scorer backing array")
	}
}

func TestDefaultSnapshot_SeedShape(t *testing.T) {
	t.Parallel()

	snapshot := DefaultSnapshot()
	if err := snapshot.Validate(); err != nil {
		t.Fatalf("default snapshot invalid: %v", err)
	}
	if len(snapshot.Matches) != 0 {
		t.Fatalf("default snapshot must start with no matches")
	}
	for _, team := range snapshot.Teams {
		if team.Played != 0 || team.Points != 0 {
			t.Fatalf("seed team %s must start at zero stats: %+v", team.ID, team)
		}
	}
	for _, p := range snapshot.Players {
		if p.Goals != 0 {
			t.Fatalf("seed player %s must start at zero goals", p.ID)
		}
		if snapshot.TeamByID(p.TeamID) < 0 {
			t.Fatalf("seed player %s references unknown team %s", p.ID, p.TeamID)
		}
	}
}
