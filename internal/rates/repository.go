// Package rates loads rate tables into an immutable, queryable Repository.
package rates

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"premium-calc/internal/logging"
	"premium-calc/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Required rate-table columns. Other columns are ignored.
const (
	ColProductCode = "product_code"
	ColProductName = "product_name"
	ColUnit        = "unit"
	ColAge         = "age"
	ColSex         = "sex"
	ColRate        = "rate"
)

var requiredColumns = []string{ColProductCode, ColProductName, ColUnit, ColAge, ColSex, ColRate}

type queryKey struct {
	code string
	sex  model.Sex
}

type rateKey struct {
	code string
	sex  model.Sex
	age  int
}

// Repository is a read-only rate table. It is safe for concurrent readers; nothing mutates it after Build.
type Repository struct {
	records  []model.RateRecord
	byKey    map[queryKey][]model.RateRecord
	products []model.Product
	sources  []string
}

// Build parses, validates and normalizes sources into a Repository.
// Any decoding, schema, coercion or duplicate problem fails the whole build. When several columns fail
// coercion the error joins one *DataTypeError per failing category.
func Build(sources []Source) (*Repository, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	tables := make([]*table, 0, len(sources))
	for _, src := range sources {
		t, err := readTable(src)
		if err != nil {
			return nil, err
		}
		logging.Debug("rate source decoded",
			zap.String("source", t.source),
			zap.String("encoding", t.encoding),
			zap.Int("rows", len(t.rows)))
		tables = append(tables, t)
	}

	if err := checkSchema(tables); err != nil {
		return nil, err
	}
	records, err := normalize(tables)
	if err != nil {
		return nil, err
	}

	repo, err := index(records)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		repo.sources = append(repo.sources, t.source)
	}

	logging.Info("rate repository built",
		zap.Int("sources", len(repo.sources)),
		zap.Int("records", len(repo.records)),
		zap.Int("products", len(repo.products)))
	return repo, nil
}

// LoadFromDir is LoadDir followed by Build.
func LoadFromDir(dir string) (*Repository, error) {
	sources, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return Build(sources)
}

func checkSchema(tables []*table) error {
	union := map[string]bool{}
	for _, t := range tables {
		for name := range t.columns {
			union[name] = true
		}
	}
	if missing := missingColumns(union); len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	for _, t := range tables {
		have := map[string]bool{}
		for name := range t.columns {
			have[name] = true
		}
		if missing := missingColumns(have); len(missing) > 0 {
			return &SchemaError{Source: t.source, Missing: missing}
		}
	}
	return nil
}

func missingColumns(have map[string]bool) []string {
	var missing []string
	for _, col := range requiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

func normalize(tables []*table) ([]model.RateRecord, error) {
	var (
		records []model.RateRecord
		badRate []string
		negRate []string
		badAge  []string
		badSex  []string
	)

	for _, t := range tables {
		for i := range t.rows {
			rec := model.RateRecord{
				ProductCode: strings.TrimSpace(t.value(i, ColProductCode)),
				ProductName: strings.TrimSpace(t.value(i, ColProductName)),
				Unit:        model.Unit(strings.TrimSpace(t.value(i, ColUnit))),
				Sex:         model.NormalizeSex(t.value(i, ColSex)),
				Source:      t.source,
				Line:        t.lines[i],
			}

			if _, err := model.ParseSex(t.value(i, ColSex)); err != nil {
				badSex = append(badSex, t.ref(i))
			}

			age, ok := parseAge(t.value(i, ColAge))
			if !ok {
				badAge = append(badAge, t.ref(i))
			}
			rec.Age = age

			rate, err := decimal.NewFromString(strings.TrimSpace(t.value(i, ColRate)))
			switch {
			case err != nil:
				badRate = append(badRate, t.ref(i))
			case rate.IsNegative():
				negRate = append(negRate, t.ref(i))
			}
			rec.Rate = rate

			records = append(records, rec)
		}
	}

	var problems []error
	for _, p := range []*DataTypeError{
		{Column: ColRate, Reason: "non-numeric", Rows: badRate},
		{Column: ColRate, Reason: "negative", Rows: negRate},
		{Column: ColAge, Reason: "non-integer or out-of-range", Rows: badAge},
		{Column: ColSex, Reason: "unknown", Rows: badSex},
	} {
		if len(p.Rows) > 0 {
			problems = append(problems, p)
		}
	}
	switch len(problems) {
	case 0:
		return records, nil
	case 1:
		return nil, problems[0]
	default:
		return nil, errors.Join(problems...)
	}
}

var maxAge = decimal.NewFromInt(model.MaxAge)

// parseAge accepts integral values in 0..model.MaxAge, including forms like "16.0" that spreadsheet exports
// produce.
func parseAge(s string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() || d.IsNegative() || d.GreaterThan(maxAge) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func index(records []model.RateRecord) (*Repository, error) {
	repo := &Repository{
		records: records,
		byKey:   map[queryKey][]model.RateRecord{},
	}

	seen := make(map[rateKey]model.RateRecord, len(records))
	names := map[model.Product]bool{}
	for _, rec := range records {
		k := rateKey{code: rec.ProductCode, sex: rec.Sex, age: rec.Age}
		if prev, dup := seen[k]; dup {
			return nil, &DuplicateRateError{
				ProductCode: rec.ProductCode,
				Sex:         rec.Sex,
				Age:         rec.Age,
				First:       ref(prev),
				Second:      ref(rec),
			}
		}
		seen[k] = rec

		qk := queryKey{code: rec.ProductCode, sex: rec.Sex}
		repo.byKey[qk] = append(repo.byKey[qk], rec)

		p := model.Product{Code: rec.ProductCode, Name: rec.ProductName}
		if !names[p] {
			names[p] = true
			repo.products = append(repo.products, p)
		}
	}

	for _, recs := range repo.byKey {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Age < recs[j].Age })
	}
	sort.Slice(repo.products, func(i, j int) bool {
		if repo.products[i].Code != repo.products[j].Code {
			return repo.products[i].Code < repo.products[j].Code
		}
		return repo.products[i].Name < repo.products[j].Name
	})
	return repo, nil
}

func ref(rec model.RateRecord) string {
	return rec.Source + ":" + strconv.Itoa(rec.Line)
}

// Query returns every record for (productCode, sex), ordered by age. The slice is a copy.
func (r *Repository) Query(productCode string, sex model.Sex) []model.RateRecord {
	recs := r.byKey[queryKey{code: productCode, sex: sex}]
	out := make([]model.RateRecord, len(recs))
	copy(out, recs)
	return out
}

// Products returns the distinct (code, name) pairs sorted by code, then name.
func (r *Repository) Products() []model.Product {
	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Len is the number of rate records.
func (r *Repository) Len() int { return len(r.records) }

// Sources lists the source IDs the repository was built from, in build order.
func (r *Repository) Sources() []string {
	out := make([]string, len(r.sources))
	copy(out, r.sources)
	return out
}
