package feature

import (
	"github.com/carbocation/harmonize"
)

// SiteRow is the unresolved identity of one site-level record.
type SiteRow struct {
	Name       string
	Peptide    string
	DatabaseID string

	// Encoding is the compound detected/localized(/site) field.
	Encoding string

	// Site is used when the encoding carries no site of its own.
	Site string
}

// Resolution lists the records that survive resolution, in input order, and
// the key each of them carries.
type Resolution struct {
	Keep    []int
	Keys    []Key
	Dropped int

	// Unsited counts records discarded for lacking any site.
	Unsited int
}

// Resolve assigns keys to site-level records and removes the ones whose
// localized sites are already represented elsewhere.
//
// A record is ambiguous when fewer modifications were localized than were
// detected. An ambiguous record is dropped if and only if its full key is
// shared with another record, because only its localized sites are kept and
// another record already speaks for them; otherwise it is the only
// information about that site and stays. Records with no site are excluded.
// Two unambiguous records with the same key cannot be reconciled and yield a
// DuplicateKeyError.
func Resolve(rows []SiteRow, enc SiteEncoding) (Resolution, error) {
	keys := make([]Key, len(rows))
	ambiguous := make([]bool, len(rows))
	sited := make([]bool, len(rows))
	counts := make(map[Key]int, len(rows))

	for i, row := range rows {
		e, err := enc.Parse(row.Encoding)
		if err != nil {
			return Resolution{}, err
		}

		site := e.Site
		if enc.SiteField < 0 {
			site = row.Site
		}
		site = CleanSite(site)

		keys[i] = Key{
			Name:       row.Name,
			Site:       site,
			Peptide:    row.Peptide,
			DatabaseID: row.DatabaseID,
		}
		ambiguous[i] = e.Ambiguous()
		sited[i] = site != ""
		counts[keys[i]]++
	}

	out := Resolution{}
	firstUnambiguous := make(map[Key]int)
	for i := range rows {
		if !sited[i] {
			out.Unsited++
			continue
		}

		if ambiguous[i] {
			if counts[keys[i]] > 1 {
				out.Dropped++
				continue
			}
		} else {
			if prior, exists := firstUnambiguous[keys[i]]; exists {
				return Resolution{}, &harmonize.DuplicateKeyError{
					Table:  "site index",
					Key:    keys[i].String(),
					First:  rows[prior].Encoding,
					Second: rows[i].Encoding,
				}
			}
			firstUnambiguous[keys[i]] = i
		}

		out.Keep = append(out.Keep, i)
		out.Keys = append(out.Keys, keys[i])
	}

	return out, nil
}

// CheckUnique returns a DuplicateKeyError for the first repeated key. Labels
// name the records for the error message and may be nil.
func CheckUnique(table string, keys []Key, labels []string) error {
	seen := make(map[Key]int, len(keys))
	for i, k := range keys {
		if prior, exists := seen[k]; exists {
			first, second := k.String(), k.String()
			if labels != nil {
				first, second = labels[prior], labels[i]
			}
			return &harmonize.DuplicateKeyError{Table: table, Key: k.String(), First: first, Second: second}
		}
		seen[k] = i
	}
	return nil
}
