// File: pkg/merge/order.go
package merge

import "sort"

// Order arranges classified records for assembly. Priority mode partitions
// the records into five disjoint bands (each file joins the first band it
// qualifies for: binary, config, entry point, test, core) and emits them as
// entry points, config, core, tests, binary. The other modes perform one
// flat sort.
func Order(records []FileRecord, mode SortMode) []FileRecord {
	out := make([]FileRecord, len(records))
	copy(out, records)

	switch mode {
	case SortAlpha:
		sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
		return out
	case SortSize:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SizeBytes > out[j].SizeBytes })
		return out
	case SortType:
		sort.Slice(out, func(i, j int) bool {
			if out[i].FileType != out[j].FileType {
				return out[i].FileType < out[j].FileType
			}
			return out[i].Path < out[j].Path
		})
		return out
	default:
		return orderByPriority(out)
	}
}

func orderByPriority(records []FileRecord) []FileRecord {
	var entryPoints, configs, cores, tests, binaries []FileRecord

	for _, rec := range records {
		switch {
		case rec.IsBinary:
			binaries = append(binaries, rec)
		case rec.IsConfig:
			configs = append(configs, rec)
		case rec.PriorityScore > entryPointThreshold:
			entryPoints = append(entryPoints, rec)
		case rec.IsTest:
			tests = append(tests, rec)
		default:
			cores = append(cores, rec)
		}
	}

	sort.SliceStable(entryPoints, func(i, j int) bool {
		if entryPoints[i].PriorityScore != entryPoints[j].PriorityScore {
			return entryPoints[i].PriorityScore > entryPoints[j].PriorityScore
		}
		return entryPoints[i].Path < entryPoints[j].Path
	})
	byPath := func(s []FileRecord) {
		sort.Slice(s, func(i, j int) bool { return s[i].Path < s[j].Path })
	}
	byPath(configs)
	byPath(cores)
	byPath(tests)
	byPath(binaries)

	ordered := make([]FileRecord, 0, len(records))
	ordered = append(ordered, entryPoints...)
	ordered = append(ordered, configs...)
	ordered = append(ordered, cores...)
	ordered = append(ordered, tests...)
	ordered = append(ordered, binaries...)
	return ordered
}
