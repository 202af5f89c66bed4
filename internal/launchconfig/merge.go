package launchconfig

// MergeAction says what Merge did to the document.
type MergeAction string

const (
	// ActionAppended means no entry had the name, so the new one was added last.
	ActionAppended MergeAction = "appended"
	// ActionReplaced means the existing entry's field set was swapped for the new one.
	ActionReplaced MergeAction = "replaced"
	// ActionRefreshed means only the refresh fields of the existing entry were updated.
	ActionRefreshed MergeAction = "refreshed"
)

// MergeResult describes the outcome of Merge.
type MergeResult struct {
	Action MergeAction `json:"action"`
	Name   string      `json:"name"`
	Index  int         `json:"index"`

	// Fields lists the fields copied from the new entry.
	Fields []string `json:"fields"`
}

// Merge puts entry into lj, matching existing entries by exact name.
//
// With overwrite, a matching entry loses all its fields and takes entry's.
// Without it, only the refreshFields present in entry are copied over and
// every other field of the matching entry is left as it was. Unmatched
// entries are appended. Other entries are never touched.
func Merge(lj *LaunchJSON, entry *DebugConfiguration, refreshFields []string, overwrite bool) MergeResult {
	name := entry.Name()
	i, found := indexByName(lj)[name]

	if !found {
		lj.Configurations = append(lj.Configurations, entry.Clone())
		return MergeResult{
			Action: ActionAppended,
			Name:   name,
			Index:  len(lj.Configurations) - 1,
			Fields: entry.Keys(),
		}
	}

	existing := lj.Configurations[i]
	if overwrite {
		existing.Replace(entry)
		return MergeResult{
			Action: ActionReplaced,
			Name:   name,
			Index:  i,
			Fields: entry.Keys(),
		}
	}

	copied := []string{}
	for _, key := range refreshFields {
		raw, ok := entry.Raw(key)
		if !ok {
			continue
		}
		existing.SetRaw(key, append([]byte(nil), raw...))
		copied = append(copied, key)
	}
	return MergeResult{
		Action: ActionRefreshed,
		Name:   name,
		Index:  i,
		Fields: copied,
	}
}
