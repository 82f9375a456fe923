package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
	"github.com/yourempire/platform/internal/app/storage"
)

// --- CatalogStore -----------------------------------------------------------

func (s *Store) CreatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_packages (id, name, price, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Price, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return catalog.Package{}, err
	}
	return p, nil
}

func (s *Store) UpdatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	existing, err := s.GetPackage(ctx, p.ID)
	if err != nil {
		return catalog.Package{}, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE platform_packages
		SET name = $2, price = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Price, p.Description, p.UpdatedAt)
	if err != nil {
		return catalog.Package{}, err
	}
	return p, nil
}

func (s *Store) GetPackage(ctx context.Context, id string) (catalog.Package, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, description, created_at, updated_at
		FROM platform_packages
		WHERE id = $1
	`, id)

	var p catalog.Package
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return catalog.Package{}, wrapNoRows(err, "package %s", id)
	}
	return p, nil
}

func (s *Store) ListPackages(ctx context.Context) ([]catalog.Package, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, description, created_at, updated_at
		FROM platform_packages
		ORDER BY price
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Package
	for rows.Next() {
		var p catalog.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) DeletePackage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM platform_packages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return wrapNotFound("package", id)
	}
	return nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_payment_methods (id, type, account_number, account_name, bank_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Type, m.AccountNumber, m.AccountName, m.BankName, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return catalog.PaymentMethod{}, err
	}
	return m, nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	existing, err := s.GetPaymentMethod(ctx, m.ID)
	if err != nil {
		return catalog.PaymentMethod{}, err
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE platform_payment_methods
		SET type = $2, account_number = $3, account_name = $4, bank_name = $5, updated_at = $6
		WHERE id = $1
	`, m.ID, m.Type, m.AccountNumber, m.AccountName, m.BankName, m.UpdatedAt)
	if err != nil {
		return catalog.PaymentMethod{}, err
	}
	return m, nil
}

func (s *Store) GetPaymentMethod(ctx context.Context, id string) (catalog.PaymentMethod, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, account_number, account_name, bank_name, created_at, updated_at
		FROM platform_payment_methods
		WHERE id = $1
	`, id)

	var m catalog.PaymentMethod
	if err := row.Scan(&m.ID, &m.Type, &m.AccountNumber, &m.AccountName, &m.BankName,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return catalog.PaymentMethod{}, wrapNoRows(err, "payment method %s", id)
	}
	return m, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, account_number, account_name, bank_name, created_at, updated_at
		FROM platform_payment_methods
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.PaymentMethod
	for rows.Next() {
		var m catalog.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Type, &m.AccountNumber, &m.AccountName, &m.BankName,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// --- AdStore ----------------------------------------------------------------

const adColumns = `id, title, type, media_key, link, reward, is_active, created_at, updated_at`

func scanAd(row interface{ Scan(...any) error }) (ads.Ad, error) {
	var a ads.Ad
	err := row.Scan(&a.ID, &a.Title, &a.Type, &a.MediaKey, &a.Link, &a.Reward,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) CreateAd(ctx context.Context, a ads.Ad) (ads.Ad, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_ads (id, title, type, media_key, link, reward, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Title, a.Type, a.MediaKey, a.Link, a.Reward, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return ads.Ad{}, err
	}
	return a, nil
}

func (s *Store) UpdateAd(ctx context.Context, a ads.Ad) (ads.Ad, error) {
	existing, err := s.GetAd(ctx, a.ID)
	if err != nil {
		return ads.Ad{}, err
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE platform_ads
		SET title = $2, type = $3, media_key = $4, link = $5, reward = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`, a.ID, a.Title, a.Type, a.MediaKey, a.Link, a.Reward, a.IsActive, a.UpdatedAt)
	if err != nil {
		return ads.Ad{}, err
	}
	return a, nil
}

func (s *Store) GetAd(ctx context.Context, id string) (ads.Ad, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+adColumns+`
		FROM platform_ads
		WHERE id = $1
	`, id)

	a, err := scanAd(row)
	if err != nil {
		return ads.Ad{}, wrapNoRows(err, "ad %s", id)
	}
	return a, nil
}

func (s *Store) ListAds(ctx context.Context, activeOnly bool) ([]ads.Ad, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+adColumns+`
		FROM platform_ads
		WHERE $1 = FALSE OR is_active
		ORDER BY created_at
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ads.Ad
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) DeleteAd(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM platform_ads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return wrapNotFound("ad", id)
	}
	return nil
}

func (s *Store) HasAdView(ctx context.Context, userID, adID string, day time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM platform_ad_views
			WHERE user_id = $1 AND ad_id = $2 AND view_day = $3
		)
	`, userID, adID, ads.Day(day)).Scan(&exists)
	return exists, err
}

func (s *Store) ListAdViews(ctx context.Context, userID string) ([]ads.View, error) {
	return s.queryAdViews(ctx, `
		SELECT id, user_id, ad_id, reward, viewed_at
		FROM platform_ad_views
		WHERE user_id = $1
		ORDER BY viewed_at DESC
	`, userID)
}

func (s *Store) ListViewsForAd(ctx context.Context, adID string) ([]ads.View, error) {
	return s.queryAdViews(ctx, `
		SELECT id, user_id, ad_id, reward, viewed_at
		FROM platform_ad_views
		WHERE ad_id = $1
		ORDER BY viewed_at
	`, adID)
}

func (s *Store) queryAdViews(ctx context.Context, query string, args ...any) ([]ads.View, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ads.View
	for rows.Next() {
		var v ads.View
		if err := rows.Scan(&v.ID, &v.UserID, &v.AdID, &v.Reward, &v.ViewedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// --- SettingsStore ----------------------------------------------------------

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM platform_settings WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		return "", wrapNoRows(err, "setting %s", key)
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}

func (s *Store) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM platform_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

// --- ContentStore -----------------------------------------------------------

func (s *Store) CreateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_announcements (id, type, content, media_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Type, a.Content, a.MediaKey, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return content.Announcement{}, err
	}
	return a, nil
}

func (s *Store) UpdateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error) {
	existing, err := s.GetAnnouncement(ctx, a.ID)
	if err != nil {
		return content.Announcement{}, err
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE platform_announcements
		SET type = $2, content = $3, media_key = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`, a.ID, a.Type, a.Content, a.MediaKey, a.IsActive, a.UpdatedAt)
	if err != nil {
		return content.Announcement{}, err
	}
	return a, nil
}

func (s *Store) GetAnnouncement(ctx context.Context, id string) (content.Announcement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, content, media_key, is_active, created_at, updated_at
		FROM platform_announcements
		WHERE id = $1
	`, id)

	var a content.Announcement
	if err := row.Scan(&a.ID, &a.Type, &a.Content, &a.MediaKey, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return content.Announcement{}, wrapNoRows(err, "announcement %s", id)
	}
	return a, nil
}

func (s *Store) ListAnnouncements(ctx context.Context, activeOnly bool) ([]content.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, content, media_key, is_active, created_at, updated_at
		FROM platform_announcements
		WHERE $1 = FALSE OR is_active
		ORDER BY created_at DESC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []content.Announcement
	for rows.Next() {
		var a content.Announcement
		if err := rows.Scan(&a.ID, &a.Type, &a.Content, &a.MediaKey, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM platform_announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return wrapNotFound("announcement", id)
	}
	return nil
}

func (s *Store) CreateGuideVideo(ctx context.Context, v content.GuideVideo) (content.GuideVideo, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_guide_videos (id, title, video_url, created_at)
		VALUES ($1, $2, $3, $4)
	`, v.ID, v.Title, v.VideoURL, v.CreatedAt)
	if err != nil {
		return content.GuideVideo{}, err
	}
	return v, nil
}

func (s *Store) ListGuideVideos(ctx context.Context) ([]content.GuideVideo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, video_url, created_at
		FROM platform_guide_videos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []content.GuideVideo
	for rows.Next() {
		var v content.GuideVideo
		if err := rows.Scan(&v.ID, &v.Title, &v.VideoURL, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (s *Store) DeleteGuideVideo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM platform_guide_videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return wrapNotFound("guide video", id)
	}
	return nil
}

func wrapNotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}
