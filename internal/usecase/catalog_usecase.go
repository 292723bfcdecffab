package usecase

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/depot-sh/depot/internal/dateclass"
	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/domain/repository"
	"github.com/depot-sh/depot/internal/naming"
)

// DefaultGroupsPerPage is the catalog page size. Pagination counts date
// groups, not individual files.
const DefaultGroupsPerPage = 10

// CatalogUseCase reconstructs the date-grouped catalog view from the
// storage directory listing. It holds no state between calls: every
// listing re-derives dates and groups from storage.
type CatalogUseCase struct {
	storage repository.Storage
}

func NewCatalogUseCase(storage repository.Storage) *CatalogUseCase {
	return &CatalogUseCase{storage: storage}
}

// List returns one page of date groups, most recent date first and most
// recently stored entry first within each group. Pages beyond the last
// return an empty group list, not an error.
func (u *CatalogUseCase) List(ctx context.Context, page, groupsPerPage int) (entities.CatalogPage, error) {
	if err := ctx.Err(); err != nil {
		return entities.CatalogPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if groupsPerPage < 1 {
		groupsPerPage = DefaultGroupsPerPage
	}

	infos, err := u.storage.List()
	if err != nil {
		return entities.CatalogPage{}, err
	}

	grouped := make(map[time.Time][]entities.StoredEntry)
	for _, info := range infos {
		entry := entities.StoredEntry{
			StoredName:   info.Name,
			OriginalName: info.Name,
			SizeBytes:    info.Size,
			CreatedAt:    info.ModTime,
			HasThumbnail: u.storage.HasThumb(info.Name),
		}
		date := dateclass.Classify(info.Name, info.ModTime)
		grouped[date] = append(grouped[date], entry)
	}

	groups := make([]entities.DateGroup, 0, len(grouped))
	for date, members := range grouped {
		sort.Slice(members, func(i, j int) bool {
			if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
				return members[i].CreatedAt.After(members[j].CreatedAt)
			}
			return members[i].StoredName < members[j].StoredName
		})
		groups = append(groups, entities.DateGroup{Date: date, Entries: members, Count: len(members)})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})

	totalGroups := len(groups)
	totalPages := (totalGroups + groupsPerPage - 1) / groupsPerPage

	start := (page - 1) * groupsPerPage
	end := start + groupsPerPage
	if start >= totalGroups {
		groups = nil
	} else {
		if end > totalGroups {
			end = totalGroups
		}
		groups = groups[start:end]
	}

	return entities.CatalogPage{
		Groups:       groups,
		TotalEntries: len(infos),
		TotalGroups:  totalGroups,
		TotalPages:   totalPages,
		Page:         page,
	}, nil
}

// Open streams a stored entry for download. The name is sanitized so a
// crafted path can never escape the storage root.
func (u *CatalogUseCase) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := naming.Sanitize(name)
	if err != nil {
		return nil, err
	}
	return u.storage.Open(clean)
}

// OpenThumb streams an entry's thumbnail; ErrNotFound means the caller
// falls back to "no preview".
func (u *CatalogUseCase) OpenThumb(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := naming.Sanitize(name)
	if err != nil {
		return nil, err
	}
	return u.storage.OpenThumb(clean)
}

// Delete removes an entry together with its thumbnail.
func (u *CatalogUseCase) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := naming.Sanitize(name)
	if err != nil {
		return err
	}
	return u.storage.Delete(clean)
}
