package engine

import "db-transfer/internal/mapping"

// Target is one destination column and where its value comes from.
type Target struct {
	Name string
	// Cell is the result column read for the value, unless Static is set.
	Cell     string
	Static   bool
	Constant string
	// Rules rewrite the value, first match wins.
	Rules []mapping.UpdateRule
}

// BuildTargets lists the destination columns: column mapping destinations,
// then static columns, then update rule destinations not yet present. A
// name already listed is skipped so the first occurrence wins.
//
// A column that only exists because of an update rule takes the value of
// the rule's source column, rewritten when the rule matches.
func BuildTargets(cols []mapping.ColumnMapping, statics []mapping.StaticColumn, updates []mapping.UpdateRule) []Target {
	var targets []Target
	seen := make(map[string]bool)
	add := func(t Target) {
		if seen[t.Name] {
			return
		}
		seen[t.Name] = true
		targets = append(targets, t)
	}

	for _, c := range cols {
		cell := c.Source.Column
		if c.Source.IsJoin() {
			cell = c.Source.Alias()
		}
		add(Target{Name: c.DestName(), Cell: cell})
	}
	for _, s := range statics {
		add(Target{Name: s.Name, Static: true, Constant: s.Value})
	}
	for _, u := range updates {
		add(Target{Name: u.DestColumn, Cell: u.SourceColumn})
	}

	for i := range targets {
		for _, u := range updates {
			if u.DestColumn == targets[i].Name {
				targets[i].Rules = append(targets[i].Rules, u)
			}
		}
	}
	return targets
}

// TargetNames returns the destination column list in insert order.
func TargetNames(targets []Target) []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}
