package stmt

// Alias pairs a table name with an optional alias.
type Alias struct {
	Name  string
	Alias string
}

func (a Alias) String() string {
	if a.Alias == "" {
		return a.Name
	}
	return a.Name + " AS " + a.Alias
}
