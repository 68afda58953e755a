package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/workshop-receipts/internal/receipt"
	"github.com/ginjaninja78/workshop-receipts/internal/records"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// ErrDuplicateWorkshop is returned when adding a workshop whose id is taken.
var ErrDuplicateWorkshop = errors.New("workshop id already exists")

// AddWorkshop appends a workshop. A blank id gets a generated one.
func (s *Session) AddWorkshop(w types.Workshop) (types.Workshop, error) {
	w = trimWorkshop(w)
	if w.Name == "" {
		return types.Workshop{}, errors.New("workshop name is required")
	}
	if w.ID == "" {
		w.ID = records.NewWorkshopID(s.opts.Clock())
	}
	if _, exists := s.workshops.Lookup(w.ID); exists {
		return types.Workshop{}, fmt.Errorf("%w: %s", ErrDuplicateWorkshop, w.ID)
	}

	s.workshops, _ = s.workshops.Upsert(w)
	s.notify(NoticeSuccess, fmt.Sprintf("Taller \"%s\" añadido.", w.Name))
	return w, nil
}

// UpdateWorkshop replaces the workshop with the same id.
func (s *Session) UpdateWorkshop(w types.Workshop) error {
	w = trimWorkshop(w)
	if _, exists := s.workshops.Lookup(w.ID); !exists || w.ID == "" {
		return fmt.Errorf("%w: %q", receipt.ErrWorkshopNotFound, w.ID)
	}
	if w.Name == "" {
		w.Name = records.UnnamedWorkshop
	}

	s.workshops, _ = s.workshops.Upsert(w)
	s.notify(NoticeSuccess, fmt.Sprintf("Taller \"%s\" actualizado.", w.Name))
	return nil
}

// DeleteWorkshop removes a workshop. Roster and log rows that reference it
// are kept.
func (s *Session) DeleteWorkshop(id string) error {
	w, exists := s.workshops.Lookup(id)
	if !exists {
		return fmt.Errorf("%w: %q", receipt.ErrWorkshopNotFound, id)
	}

	s.workshops, _ = s.workshops.Delete(id)
	s.notify(NoticeSuccess, fmt.Sprintf("Taller \"%s\" eliminado.", w.Name))
	return nil
}

func trimWorkshop(w types.Workshop) types.Workshop {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	w.Details = strings.TrimSpace(w.Details)
	w.Fees = strings.TrimSpace(w.Fees)
	return w
}

// SetStudentTags replaces a student's tags and saves the roster.
func (s *Session) SetStudentTags(workshopID, name string, tags []string) error {
	if err := s.roster.SetTags(workshopID, name, tags); err != nil {
		return err
	}
	return s.SaveRoster()
}
