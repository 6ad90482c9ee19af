package annotation

import (
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/roster"
)

// GroupLookup resolves an image identifier to its group.
type GroupLookup interface {
	Lookup(id string) (roster.Group, error)
}

// Join attaches a group to every record. The first identifier missing from
// the roster aborts the join; no partial result is returned, since a
// dropped image would silently undercount its group.
func Join(records []Record, groups GroupLookup) ([]GroupedRecord, error) {
	joined := make([]GroupedRecord, 0, len(records))
	perGroup := make(map[roster.Group]int, len(roster.Groups))

	for _, rec := range records {
		g, err := groups.Lookup(rec.ImageID)
		if err != nil {
			return nil, errors.Wrap(err).
				Component(component).
				Context("image_id", rec.ImageID).
				Build()
		}
		joined = append(joined, GroupedRecord{Record: rec, Group: g})
		perGroup[g]++
	}

	GetLogger().Debug("Annotations joined to roster",
		logger.Int("images", len(joined)),
		logger.Int("images_female", perGroup[roster.GroupFemale]),
		logger.Int("images_male", perGroup[roster.GroupMale]))

	return joined, nil
}
