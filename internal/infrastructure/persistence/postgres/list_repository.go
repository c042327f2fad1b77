package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/ptr"
)

const listColumns = `id, owner_user_id, title, is_autosave_draft, status, activated_at,
	is_editing, editing_target_list_id, created_at, updated_at`

const itemColumns = `id, list_id, kind, name, qty, checked, note,
	source, source_product_id, thumbnail, price, unit_size, unit_format, unit_price, is_approx_size,
	created_at, updated_at`

// FindByID loads the full aggregate: the list row plus its items in
// position order.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.List, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = $1`, id)

	l, err := scanList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to query list: %w", err)
	}

	items, err := s.loadItems(ctx, []string{l.ID})
	if err != nil {
		return nil, err
	}
	l.Items = items[l.ID]
	return l, nil
}

// ListByOwner returns every list owned by the user, autosave drafts
// included, ordered by creation time.
func (s *Store) ListByOwner(ctx context.Context, ownerUserID string) ([]*domain.List, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+listColumns+` FROM lists
		 WHERE owner_user_id = $1
		 ORDER BY created_at, id`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.List
	var ids []string
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	if len(lists) == 0 {
		return nil, nil
	}

	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		l.Items = items[l.ID]
	}
	return lists, nil
}

// Save upserts the aggregate. The item set is replaced wholesale so the
// stored items always mirror the in-memory slice, in order.
func (s *Store) Save(ctx context.Context, l *domain.List) error {
	return s.inTransaction(ctx, "save_list", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO lists (`+listColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO UPDATE SET
				owner_user_id = EXCLUDED.owner_user_id,
				title = EXCLUDED.title,
				is_autosave_draft = EXCLUDED.is_autosave_draft,
				status = EXCLUDED.status,
				activated_at = EXCLUDED.activated_at,
				is_editing = EXCLUDED.is_editing,
				editing_target_list_id = EXCLUDED.editing_target_list_id,
				created_at = EXCLUDED.created_at,
				updated_at = EXCLUDED.updated_at`,
			l.ID, l.OwnerUserID, l.Title, l.IsAutosaveDraft, string(l.Status), l.ActivatedAt,
			l.IsEditing, l.EditingTargetListID, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert list: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM list_items WHERE list_id = $1`, l.ID); err != nil {
			return fmt.Errorf("failed to clear list items: %w", err)
		}

		for pos, it := range l.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO list_items (position, `+itemColumns+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
				pos, it.ID, l.ID, string(it.Kind), it.Name, it.Qty, it.Checked, it.Note,
				nullableStr(it.Source), nullableStr(it.SourceProductID), it.Thumbnail,
				it.Price, it.UnitSize, it.UnitFormat, it.UnitPrice, it.IsApproxSize,
				it.CreatedAt, it.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert list item: %w", err)
			}
		}
		return nil
	})
}

// DeleteByID removes the list and, via cascade, its items. Deleting a
// missing id is a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// loadItems fetches items for the given list ids, grouped by list id in
// position order.
func (s *Store) loadItems(ctx context.Context, listIDs []string) (map[string][]domain.ListItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM list_items
		 WHERE list_id = ANY($1)
		 ORDER BY list_id, position`, listIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query list items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.ListItem)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		out[it.ListID] = append(out[it.ListID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list items: %w", err)
	}
	return out, nil
}

func scanList(row pgx.Row) (*domain.List, error) {
	var l domain.List
	var status string
	if err := row.Scan(
		&l.ID, &l.OwnerUserID, &l.Title, &l.IsAutosaveDraft, &status, &l.ActivatedAt,
		&l.IsEditing, &l.EditingTargetListID, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Status = domain.ListStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	if l.ActivatedAt != nil {
		t := l.ActivatedAt.UTC()
		l.ActivatedAt = &t
	}
	return &l, nil
}

func scanItem(row pgx.Row) (domain.ListItem, error) {
	var it domain.ListItem
	var kind string
	var source, sourceProductID *string
	if err := row.Scan(
		&it.ID, &it.ListID, &kind, &it.Name, &it.Qty, &it.Checked, &it.Note,
		&source, &sourceProductID, &it.Thumbnail, &it.Price, &it.UnitSize,
		&it.UnitFormat, &it.UnitPrice, &it.IsApproxSize,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return domain.ListItem{}, err
	}
	it.Kind = domain.ItemKind(kind)
	it.Source = ptr.Deref(source, "")
	it.SourceProductID = ptr.Deref(sourceProductID, "")
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return it, nil
}

// nullableStr maps the empty string to NULL so manual items store no
// catalog columns at all.
func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
