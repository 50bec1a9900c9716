package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
)

// SearchFunc ищет записи по подстроке имени без учёта регистра.
type SearchFunc func(ctx context.Context, query string, limit int) ([]SearchResult, error)

// SearchUseCase хранит реестр целей автодополнения.
type SearchUseCase struct {
	targets map[string]SearchFunc
}

func NewSearchUC(categoryRepo CategoryRepository, customerRepo CustomerRepository, productRepo ProductRepository) *SearchUseCase {
	s := &SearchUseCase{targets: make(map[string]SearchFunc)}
	s.Register("category", categoryRepo.Search)
	s.Register("customer", customerRepo.Search)
	s.Register("product", productRepo.Search)
	return s
}

func (s *SearchUseCase) Register(target string, fn SearchFunc) {
	s.targets[target] = fn
}

// Targets возвращает зарегистрированные цели в алфавитном порядке.
func (s *SearchUseCase) Targets() []string {
	names := make([]string, 0, len(s.targets))
	for name := range s.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SearchUseCase) Search(ctx context.Context, target, query string) ([]SearchResult, error) {
	const op = "SearchUseCase.Search"

	fn, ok := s.targets[target]
	if !ok {
		return nil, e.Wrap(op, e.ErrUnknownSearchTarget)
	}

	results, err := fn(ctx, strings.TrimSpace(query), SearchLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(results) > SearchLimit {
		results = results[:SearchLimit]
	}

	return results, nil
}
