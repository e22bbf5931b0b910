package watchlist

// Dedupe collapses entries sharing a case-folded title key. The first-seen
// entry for a key survives, unless a later duplicate has DetailsFetched while
// the survivor does not; the more complete entry then takes the survivor's
// slot. First-seen relative order of surviving keys is preserved.
//
// Applying Dedupe to its own output is a no-op.
func Dedupe(entries []Entry) ([]Entry, int) {
	deduped := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, entry := range entries {
		key := TitleKey(entry.Title)
		pos, seen := index[key]
		if !seen {
			index[key] = len(deduped)
			deduped = append(deduped, entry)
			continue
		}
		if entry.DetailsFetched && !deduped[pos].DetailsFetched {
			deduped[pos] = entry
		}
	}

	return deduped, len(entries) - len(deduped)
}
