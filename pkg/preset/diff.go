package preset

import "sort"

// FieldChange is one metadata field that differs between two presets.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ValueChange is one parameter whose value differs. A nil side means the
// parameter only exists in the other preset.
type ValueChange struct {
	Old *Value `json:"old,omitempty"`
	New *Value `json:"new,omitempty"`
}

// SectionDiff describes how one strip, bus or scenario changed.
type SectionDiff struct {
	// Status is "added", "removed" or "modified".
	Status string `json:"status"`

	// ParameterChanges is populated for modified sections.
	ParameterChanges map[string]ValueChange `json:"parameter_changes,omitempty"`
}

// Comparison is the full difference between two presets.
type Comparison struct {
	MetadataChanges map[string]FieldChange `json:"metadata_changes"`
	StripChanges    map[int]SectionDiff    `json:"strip_changes"`
	BusChanges      map[int]SectionDiff    `json:"bus_changes"`
	ScenarioChanges map[string]SectionDiff `json:"scenario_changes"`
	Summary         Summary                `json:"summary"`
}

// Summary counts the changes in a Comparison.
type Summary struct {
	TotalChanges      int `json:"total_changes"`
	StripsModified    int `json:"strips_modified"`
	BusesModified     int `json:"buses_modified"`
	ScenariosModified int `json:"scenarios_modified"`
}

// Diff compares two presets section by section. Strips and buses pair by ID,
// scenarios by name; unmatched sections report as added or removed.
func Diff(a, b *Preset) *Comparison {
	cmp := &Comparison{
		MetadataChanges: make(map[string]FieldChange),
		StripChanges:    make(map[int]SectionDiff),
		BusChanges:      make(map[int]SectionDiff),
		ScenarioChanges: make(map[string]SectionDiff),
	}

	metaFields := []struct {
		name     string
		old, new string
	}{
		{"name", a.Metadata.Name, b.Metadata.Name},
		{"description", a.Metadata.Description, b.Metadata.Description},
		{"version", a.Metadata.Version, b.Metadata.Version},
		{"author", a.Metadata.Author, b.Metadata.Author},
		{"voicemeeter_type", a.Metadata.VoicemeeterType, b.Metadata.VoicemeeterType},
	}
	for _, field := range metaFields {
		if field.old != field.new {
			cmp.MetadataChanges[field.name] = FieldChange{Old: field.old, New: field.new}
		}
	}

	stripsA := make(map[int][]Parameter, len(a.Strips))
	for _, strip := range a.Strips {
		stripsA[strip.ID] = strip.Parameters
	}
	stripsB := make(map[int][]Parameter, len(b.Strips))
	for _, strip := range b.Strips {
		stripsB[strip.ID] = strip.Parameters
	}
	cmp.Summary.StripsModified = diffSections(stripsA, stripsB, cmp.StripChanges)

	busesA := make(map[int][]Parameter, len(a.Buses))
	for _, bus := range a.Buses {
		busesA[bus.ID] = bus.Parameters
	}
	busesB := make(map[int][]Parameter, len(b.Buses))
	for _, bus := range b.Buses {
		busesB[bus.ID] = bus.Parameters
	}
	cmp.Summary.BusesModified = diffSections(busesA, busesB, cmp.BusChanges)

	scenariosA := make(map[string][]Parameter, len(a.Scenarios))
	for _, scenario := range a.Scenarios {
		scenariosA[scenario.Name] = scenario.Parameters
	}
	scenariosB := make(map[string][]Parameter, len(b.Scenarios))
	for _, scenario := range b.Scenarios {
		scenariosB[scenario.Name] = scenario.Parameters
	}
	cmp.Summary.ScenariosModified = diffSections(scenariosA, scenariosB, cmp.ScenarioChanges)

	cmp.Summary.TotalChanges = len(cmp.MetadataChanges) +
		cmp.Summary.StripsModified +
		cmp.Summary.BusesModified +
		cmp.Summary.ScenariosModified

	return cmp
}

// diffSections compares keyed parameter sets and records differences into
// out. It returns the number of changed sections.
func diffSections[K comparable](a, b map[K][]Parameter, out map[K]SectionDiff) int {
	changed := 0
	for key := range union(a, b) {
		paramsA, inA := a[key]
		paramsB, inB := b[key]

		switch {
		case !inA:
			out[key] = SectionDiff{Status: "added"}
			changed++
		case !inB:
			out[key] = SectionDiff{Status: "removed"}
			changed++
		default:
			if changes := diffParams(paramsA, paramsB); len(changes) > 0 {
				out[key] = SectionDiff{Status: "modified", ParameterChanges: changes}
				changed++
			}
		}
	}
	return changed
}

func union[K comparable](a, b map[K][]Parameter) map[K]struct{} {
	keys := make(map[K]struct{}, len(a)+len(b))
	for key := range a {
		keys[key] = struct{}{}
	}
	for key := range b {
		keys[key] = struct{}{}
	}
	return keys
}

func diffParams(a, b []Parameter) map[string]ValueChange {
	valuesA := make(map[string]Value, len(a))
	for _, param := range a {
		valuesA[param.Name] = param.Value
	}
	valuesB := make(map[string]Value, len(b))
	for _, param := range b {
		valuesB[param.Name] = param.Value
	}

	names := make([]string, 0, len(valuesA)+len(valuesB))
	for name := range valuesA {
		names = append(names, name)
	}
	for name := range valuesB {
		if _, seen := valuesA[name]; !seen {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	changes := make(map[string]ValueChange)
	for _, name := range names {
		valueA, inA := valuesA[name]
		valueB, inB := valuesB[name]

		switch {
		case !inA:
			v := valueB
			changes[name] = ValueChange{New: &v}
		case !inB:
			v := valueA
			changes[name] = ValueChange{Old: &v}
		case !valueA.Equal(valueB):
			oldV, newV := valueA, valueB
			changes[name] = ValueChange{Old: &oldV, New: &newV}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
