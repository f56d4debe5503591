package documents

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	drive "google.golang.org/api/drive/v3"

	"github.com/teemow/gdocs/internal/instrumentation"
)

// Criteria are filter conditions keyed by snake_case Drive field names.
//
// A bool value matches the field exactly, a string value matches fields
// containing it. The "folder" key takes a folder id or an Entity and
// matches items inside that folder. All conditions must hold.
type Criteria map[string]any

// FolderKey is the criteria key restricting results to a parent folder.
const FolderKey = "folder"

// listFields are the Drive fields requested for every listed item.
const listFields = "nextPageToken, files(id, name, mimeType, parents)"

var (
	criterionKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	snakePattern        = regexp.MustCompile(`_([a-z0-9])`)
	queryEscaper        = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)

// BuildQuery renders criteria as a Drive query string. The fixed mime type
// of kind is added as a condition, replacing any "mime_type" criterion.
// Conditions are joined with "and" in key order.
func BuildQuery(kind Kind, criteria Criteria) (string, error) {
	all := make(Criteria, len(criteria)+1)
	for k, v := range criteria {
		all[k] = v
	}
	if mime := kind.MimeType(); mime != "" {
		all["mime_type"] = mime
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	for _, key := range keys {
		clause, err := renderCriterion(key, all[key])
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}

	return strings.Join(clauses, " and "), nil
}

func renderCriterion(key string, value any) (string, error) {
	if !criterionKeyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: key %q must be snake_case", ErrInvalidCriterion, key)
	}

	if key == FolderKey {
		id, err := folderID(value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("'%s' in parents", queryEscaper.Replace(id)), nil
	}

	field := camelCase(key)
	switch v := value.(type) {
	case bool:
		return fmt.Sprintf("%s = %t", field, v), nil
	case string:
		return fmt.Sprintf("%s contains '%s'", field, queryEscaper.Replace(v)), nil
	default:
		return "", fmt.Errorf("%w: %s has unsupported value type %T", ErrInvalidCriterion, key, value)
	}
}

func folderID(value any) (string, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: empty folder id", ErrInvalidCriterion)
		}
		return v, nil
	case Entity:
		if v.ID() == "" {
			return "", fmt.Errorf("%w: folder has no id", ErrInvalidCriterion)
		}
		return v.ID(), nil
	default:
		return "", fmt.Errorf("%w: folder must be an id or an entity, got %T", ErrInvalidCriterion, value)
	}
}

// camelCase converts a snake_case key to the Drive field name.
func camelCase(key string) string {
	return snakePattern.ReplaceAllStringFunc(key, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// listFiles pages through every item matching q and builds an entity for
// each with build.
func listFiles(ctx context.Context, b *Binding, q string, build func(*drive.File) Entity) ([]Entity, error) {
	entities := []Entity{}
	err := b.driveCall(ctx, instrumentation.OperationList, "", func(ctx context.Context, svc *drive.Service) error {
		entities = entities[:0]
		call := svc.Files.List().Spaces("drive").Fields(listFields)
		if q != "" {
			call = call.Q(q)
		}
		return call.Pages(ctx, func(page *drive.FileList) error {
			for _, item := range page.Files {
				entities = append(entities, build(item))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}
