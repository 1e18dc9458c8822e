package pgrepo

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunushop-backend/internal/domain"
)

type deliveryRepository struct {
	db *pgxpool.Pool
}

func NewDeliveryRepository(db *pgxpool.Pool) domain.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func defaultStatus(s domain.Status) domain.Status {
	if s == "" {
		return domain.StatusActive
	}
	return s
}

// --- Cities ---

const cityColumns = `id, name, category, zone_type, status, price, is_free,
	delivery_time_min, delivery_time_max, delivery_time_unit, created_at, updated_at`

func scanCity(row pgx.Row) (domain.City, error) {
	var c domain.City
	err := row.Scan(&c.ID, &c.Name, &c.Category, &c.ZoneType, &c.Status, &c.Price, &c.IsFree,
		&c.DeliveryTimeMin, &c.DeliveryTimeMax, &c.DeliveryTimeUnit, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *deliveryRepository) ListCities(ctx context.Context) ([]domain.City, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+cityColumns+` FROM delivery_cities ORDER BY zone_type, name`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return collect(rows, scanCity)
}

func (r *deliveryRepository) GetCity(ctx context.Context, id string) (*domain.City, error) {
	c, err := scanCity(conn(ctx, r.db).QueryRow(ctx, `SELECT `+cityColumns+` FROM delivery_cities WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *deliveryRepository) CreateCity(ctx context.Context, c *domain.City) error {
	c.ID = newID(c.ID)
	c.Status = defaultStatus(c.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO delivery_cities (id, name, category, zone_type, status, price, is_free,
			delivery_time_min, delivery_time_max, delivery_time_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Category, c.ZoneType, c.Status, c.Price, c.IsFree,
		c.DeliveryTimeMin, c.DeliveryTimeMax, c.DeliveryTimeUnit,
	).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *deliveryRepository) UpdateCity(ctx context.Context, c *domain.City) error {
	c.Status = defaultStatus(c.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE delivery_cities SET name = $2, category = $3, zone_type = $4, status = $5, price = $6,
			is_free = $7, delivery_time_min = $8, delivery_time_max = $9, delivery_time_unit = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Category, c.ZoneType, c.Status, c.Price, c.IsFree,
		c.DeliveryTimeMin, c.DeliveryTimeMax, c.DeliveryTimeUnit,
	).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *deliveryRepository) DeleteCity(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM delivery_cities WHERE id = $1`, id))
}

func (r *deliveryRepository) SetCityStatus(ctx context.Context, id string, status domain.Status) error {
	return r.setStatus(ctx, "delivery_cities", id, status)
}

// --- Regions ---

const regionColumns = `id, name, status, price, main_cities,
	delivery_time_min, delivery_time_max, delivery_time_unit, created_at, updated_at`

func scanRegion(row pgx.Row) (domain.Region, error) {
	var g domain.Region
	err := row.Scan(&g.ID, &g.Name, &g.Status, &g.Price, &g.MainCities,
		&g.DeliveryTimeMin, &g.DeliveryTimeMax, &g.DeliveryTimeUnit, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *deliveryRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+regionColumns+` FROM delivery_regions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return collect(rows, scanRegion)
}

func (r *deliveryRepository) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	g, err := scanRegion(conn(ctx, r.db).QueryRow(ctx, `SELECT `+regionColumns+` FROM delivery_regions WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &g, nil
}

func (r *deliveryRepository) CreateRegion(ctx context.Context, g *domain.Region) error {
	g.ID = newID(g.ID)
	g.Status = defaultStatus(g.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO delivery_regions (id, name, status, price, main_cities,
			delivery_time_min, delivery_time_max, delivery_time_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		g.ID, g.Name, g.Status, g.Price, g.MainCities,
		g.DeliveryTimeMin, g.DeliveryTimeMax, g.DeliveryTimeUnit,
	).Scan(&g.CreatedAt, &g.UpdatedAt))
}

func (r *deliveryRepository) UpdateRegion(ctx context.Context, g *domain.Region) error {
	g.Status = defaultStatus(g.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE delivery_regions SET name = $2, status = $3, price = $4, main_cities = $5,
			delivery_time_min = $6, delivery_time_max = $7, delivery_time_unit = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		g.ID, g.Name, g.Status, g.Price, g.MainCities,
		g.DeliveryTimeMin, g.DeliveryTimeMax, g.DeliveryTimeUnit,
	).Scan(&g.CreatedAt, &g.UpdatedAt))
}

func (r *deliveryRepository) DeleteRegion(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM delivery_regions WHERE id = $1`, id))
}

func (r *deliveryRepository) SetRegionStatus(ctx context.Context, id string, status domain.Status) error {
	return r.setStatus(ctx, "delivery_regions", id, status)
}

// --- International zones ---

const zoneColumns = `id, name, countries, status, price,
	delivery_time_min, delivery_time_max, delivery_time_unit, created_at, updated_at`

func scanZone(row pgx.Row) (domain.InternationalZone, error) {
	var (
		z         domain.InternationalZone
		countries []byte
	)
	err := row.Scan(&z.ID, &z.Name, &countries, &z.Status, &z.Price,
		&z.DeliveryTimeMin, &z.DeliveryTimeMax, &z.DeliveryTimeUnit, &z.CreatedAt, &z.UpdatedAt)
	if err != nil {
		return z, err
	}
	if len(countries) > 0 {
		if err := json.Unmarshal(countries, &z.Countries); err != nil {
			return z, fmt.Errorf("zone %s countries: %w", z.ID, err)
		}
	}
	return z, nil
}

func (r *deliveryRepository) ListZones(ctx context.Context) ([]domain.InternationalZone, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+zoneColumns+` FROM international_zones ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return collect(rows, scanZone)
}

func (r *deliveryRepository) GetZone(ctx context.Context, id string) (*domain.InternationalZone, error) {
	z, err := scanZone(conn(ctx, r.db).QueryRow(ctx, `SELECT `+zoneColumns+` FROM international_zones WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &z, nil
}

func (r *deliveryRepository) CreateZone(ctx context.Context, z *domain.InternationalZone) error {
	countries, err := json.Marshal(z.Countries)
	if err != nil {
		return err
	}
	z.ID = newID(z.ID)
	z.Status = defaultStatus(z.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO international_zones (id, name, countries, status, price,
			delivery_time_min, delivery_time_max, delivery_time_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		z.ID, z.Name, countries, z.Status, z.Price,
		z.DeliveryTimeMin, z.DeliveryTimeMax, z.DeliveryTimeUnit,
	).Scan(&z.CreatedAt, &z.UpdatedAt))
}

func (r *deliveryRepository) UpdateZone(ctx context.Context, z *domain.InternationalZone) error {
	countries, err := json.Marshal(z.Countries)
	if err != nil {
		return err
	}
	z.Status = defaultStatus(z.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE international_zones SET name = $2, countries = $3, status = $4, price = $5,
			delivery_time_min = $6, delivery_time_max = $7, delivery_time_unit = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		z.ID, z.Name, countries, z.Status, z.Price,
		z.DeliveryTimeMin, z.DeliveryTimeMax, z.DeliveryTimeUnit,
	).Scan(&z.CreatedAt, &z.UpdatedAt))
}

func (r *deliveryRepository) DeleteZone(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM international_zones WHERE id = $1`, id))
}

func (r *deliveryRepository) SetZoneStatus(ctx context.Context, id string, status domain.Status) error {
	return r.setStatus(ctx, "international_zones", id, status)
}

// --- Carriers ---

const transporteurColumns = `id, name, logo_url, delivery_zones, status, created_at, updated_at`

func scanTransporteur(row pgx.Row) (domain.Transporteur, error) {
	var (
		t     domain.Transporteur
		zones []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &t.LogoURL, &zones, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	if len(zones) > 0 {
		if err := json.Unmarshal(zones, &t.DeliveryZones); err != nil {
			return t, fmt.Errorf("transporteur %s zones: %w", t.ID, err)
		}
	}
	return t, nil
}

func (r *deliveryRepository) ListTransporteurs(ctx context.Context) ([]domain.Transporteur, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+transporteurColumns+` FROM transporteurs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list transporteurs: %w", err)
	}
	return collect(rows, scanTransporteur)
}

func (r *deliveryRepository) GetTransporteur(ctx context.Context, id string) (*domain.Transporteur, error) {
	t, err := scanTransporteur(conn(ctx, r.db).QueryRow(ctx, `SELECT `+transporteurColumns+` FROM transporteurs WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *deliveryRepository) CreateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	zones, err := json.Marshal(nonNil(t.DeliveryZones))
	if err != nil {
		return err
	}
	t.ID = newID(t.ID)
	t.Status = defaultStatus(t.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO transporteurs (id, name, logo_url, delivery_zones, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.LogoURL, zones, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt))
}

func (r *deliveryRepository) UpdateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	zones, err := json.Marshal(nonNil(t.DeliveryZones))
	if err != nil {
		return err
	}
	t.Status = defaultStatus(t.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE transporteurs SET name = $2, logo_url = $3, delivery_zones = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.LogoURL, zones, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt))
}

func (r *deliveryRepository) DeleteTransporteur(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM transporteurs WHERE id = $1`, id))
}

func (r *deliveryRepository) SetTransporteurStatus(ctx context.Context, id string, status domain.Status) error {
	return r.setStatus(ctx, "transporteurs", id, status)
}

// --- Zone tariffs ---

// Tariffs are read with their carrier joined in so the resolver sees the
// current carrier status and logo.
const tarifSelect = `
	SELECT zt.id, zt.zone_id, zt.zone_name, zt.transporteur_id, zt.transporteur_name,
		zt.prix_transporteur, zt.prix_standard_international,
		zt.delai_livraison_min, zt.delai_livraison_max, zt.status, zt.created_at, zt.updated_at,
		t.id, t.name, t.logo_url, t.status
	FROM zone_tarifs zt
	LEFT JOIN transporteurs t ON t.id = zt.transporteur_id`

func scanTarif(row pgx.Row) (domain.ZoneTarif, error) {
	var (
		zt                              domain.ZoneTarif
		carrierID, carrierName, logoURL *string
		carrierStatus                   *string
	)
	err := row.Scan(&zt.ID, &zt.ZoneID, &zt.ZoneName, &zt.TransporteurID, &zt.TransporteurName,
		&zt.PrixTransporteur, &zt.PrixStandardInternational,
		&zt.DelaiLivraisonMin, &zt.DelaiLivraisonMax, &zt.Status, &zt.CreatedAt, &zt.UpdatedAt,
		&carrierID, &carrierName, &logoURL, &carrierStatus)
	if err != nil {
		return zt, err
	}
	if carrierID != nil {
		zt.Transporteur = &domain.Transporteur{
			ID:      *carrierID,
			Name:    deref(carrierName),
			LogoURL: deref(logoURL),
			Status:  domain.Status(deref(carrierStatus)),
		}
	}
	return zt, nil
}

func (r *deliveryRepository) ListTarifs(ctx context.Context) ([]domain.ZoneTarif, error) {
	rows, err := conn(ctx, r.db).Query(ctx, tarifSelect+` ORDER BY zt.zone_name, zt.prix_transporteur`)
	if err != nil {
		return nil, fmt.Errorf("list tarifs: %w", err)
	}
	return collect(rows, scanTarif)
}

func (r *deliveryRepository) GetTarif(ctx context.Context, id string) (*domain.ZoneTarif, error) {
	zt, err := scanTarif(conn(ctx, r.db).QueryRow(ctx, tarifSelect+` WHERE zt.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &zt, nil
}

func (r *deliveryRepository) CreateTarif(ctx context.Context, zt *domain.ZoneTarif) error {
	zt.ID = newID(zt.ID)
	zt.Status = defaultStatus(zt.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO zone_tarifs (id, zone_id, zone_name, transporteur_id, transporteur_name,
			prix_transporteur, prix_standard_international, delai_livraison_min, delai_livraison_max, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		zt.ID, zt.ZoneID, zt.ZoneName, zt.TransporteurID, zt.TransporteurName,
		zt.PrixTransporteur, zt.PrixStandardInternational, zt.DelaiLivraisonMin, zt.DelaiLivraisonMax, zt.Status,
	).Scan(&zt.CreatedAt, &zt.UpdatedAt))
}

func (r *deliveryRepository) UpdateTarif(ctx context.Context, zt *domain.ZoneTarif) error {
	zt.Status = defaultStatus(zt.Status)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE zone_tarifs SET zone_id = $2, zone_name = $3, transporteur_id = $4, transporteur_name = $5,
			prix_transporteur = $6, prix_standard_international = $7,
			delai_livraison_min = $8, delai_livraison_max = $9, status = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		zt.ID, zt.ZoneID, zt.ZoneName, zt.TransporteurID, zt.TransporteurName,
		zt.PrixTransporteur, zt.PrixStandardInternational, zt.DelaiLivraisonMin, zt.DelaiLivraisonMax, zt.Status,
	).Scan(&zt.CreatedAt, &zt.UpdatedAt))
}

func (r *deliveryRepository) DeleteTarif(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM zone_tarifs WHERE id = $1`, id))
}

func (r *deliveryRepository) SetTarifStatus(ctx context.Context, id string, status domain.Status) error {
	return r.setStatus(ctx, "zone_tarifs", id, status)
}

func (r *deliveryRepository) CountTarifsByZone(ctx context.Context, zoneID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM zone_tarifs WHERE zone_id = $1`, zoneID).Scan(&n)
	return n, err
}

func (r *deliveryRepository) CountTarifsByTransporteur(ctx context.Context, transporteurID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM zone_tarifs WHERE transporteur_id = $1`, transporteurID).Scan(&n)
	return n, err
}

// setStatus is shared by the toggle endpoints. table is always a constant from this file.
func (r *deliveryRepository) setStatus(ctx context.Context, table, id string, status domain.Status) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE `+table+` SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}
