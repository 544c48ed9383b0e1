package models

// All lists every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Player{},
		&Season{},
		&Team{},
		&Match{},
		&TeamParticipation{},
		&DotaHero{},
		&Game{},
		&GameTeam{},
		&PlayerParticipation{},
		&EloHistory{},
	}
}
