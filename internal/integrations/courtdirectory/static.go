package courtdirectory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// catalogFile формат YAML-файла каталога
type catalogFile struct {
	Courts []Court `yaml:"courts"`
}

// Static каталог кортов, заданный в памяти или в YAML-файле (для локального запуска)
type Static struct {
	courts map[int64]domain.Court
}

// NewStatic создает каталог из списка кортов
func NewStatic(courts []domain.Court) *Static {
	s := &Static{courts: make(map[int64]domain.Court, len(courts))}
	for _, c := range courts {
		s.courts[c.ID] = c
	}
	return s
}

// LoadFile читает каталог кортов из YAML-файла
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidCatalog, path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, path, err)
	}

	courts := make([]domain.Court, 0, len(file.Courts))
	seen := make(map[int64]bool, len(file.Courts))
	for _, c := range file.Courts {
		if c.ID <= 0 {
			return nil, fmt.Errorf("%w: court id must be positive", ErrInvalidCatalog)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate court id %d", ErrInvalidCatalog, c.ID)
		}
		seen[c.ID] = true
		courts = append(courts, *c.toDomain())
	}

	return NewStatic(courts), nil
}

// GetCourt получает корт по ID
func (s *Static) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	c, ok := s.courts[courtID]
	if !ok {
		return nil, ErrCourtNotFound
	}
	return &c, nil
}

// Len количество кортов в каталоге
func (s *Static) Len() int {
	return len(s.courts)
}
