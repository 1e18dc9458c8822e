package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/validator"
)

// DeliveryAdminUsecase backs the admin screens for cities, regions,
// international zones, carriers and zone tariffs. Every mutation drops the
// cached delivery catalog.
type DeliveryAdminUsecase struct {
	repo    domain.DeliveryRepository
	catalog catalogInvalidator
}

type catalogInvalidator interface {
	Invalidate()
}

func NewDeliveryAdminUsecase(repo domain.DeliveryRepository, catalog catalogInvalidator) *DeliveryAdminUsecase {
	return &DeliveryAdminUsecase{repo: repo, catalog: catalog}
}

func (u *DeliveryAdminUsecase) invalidate() {
	u.catalog.Invalidate()
}

// wrapNotFound turns a repository ErrNotFound into a user-facing error.
func wrapNotFound(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError(what)
	}
	return err
}

func normalizeWindow(w *domain.DeliveryWindow, unit string) {
	if w.DeliveryTimeUnit == "" {
		w.DeliveryTimeUnit = unit
	}
	if w.DeliveryTimeMax == 0 {
		w.DeliveryTimeMax = w.DeliveryTimeMin
	}
}

// --- Cities ---

func (u *DeliveryAdminUsecase) ListCities(ctx context.Context) ([]domain.City, error) {
	return u.repo.ListCities(ctx)
}

func (u *DeliveryAdminUsecase) GetCity(ctx context.Context, id string) (*domain.City, error) {
	c, err := u.repo.GetCity(ctx, id)
	return c, wrapNotFound(err, "Ville")
}

func (u *DeliveryAdminUsecase) CreateCity(ctx context.Context, c *domain.City) error {
	c.Name = strings.TrimSpace(c.Name)
	normalizeWindow(&c.DeliveryWindow, domain.TimeUnitHours)
	if err := validator.ValidateStruct(c); err != nil {
		return err
	}
	if err := u.repo.CreateCity(ctx, c); err != nil {
		return err
	}
	slog.Info("Admin: city created", "id", c.ID, "name", c.Name)
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) UpdateCity(ctx context.Context, c *domain.City) error {
	c.Name = strings.TrimSpace(c.Name)
	normalizeWindow(&c.DeliveryWindow, domain.TimeUnitHours)
	if err := validator.ValidateStruct(c); err != nil {
		return err
	}
	if err := u.repo.UpdateCity(ctx, c); err != nil {
		return wrapNotFound(err, "Ville")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) DeleteCity(ctx context.Context, id string) error {
	if err := u.repo.DeleteCity(ctx, id); err != nil {
		return wrapNotFound(err, "Ville")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) ToggleCityStatus(ctx context.Context, id string) (domain.Status, error) {
	c, err := u.repo.GetCity(ctx, id)
	if err != nil {
		return "", wrapNotFound(err, "Ville")
	}
	next := c.Status.Toggle()
	if err := u.repo.SetCityStatus(ctx, id, next); err != nil {
		return "", err
	}
	u.invalidate()
	return next, nil
}

// --- Regions ---

func (u *DeliveryAdminUsecase) ListRegions(ctx context.Context) ([]domain.Region, error) {
	return u.repo.ListRegions(ctx)
}

func (u *DeliveryAdminUsecase) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	r, err := u.repo.GetRegion(ctx, id)
	return r, wrapNotFound(err, "Région")
}

func (u *DeliveryAdminUsecase) CreateRegion(ctx context.Context, r *domain.Region) error {
	r.Name = strings.TrimSpace(r.Name)
	normalizeWindow(&r.DeliveryWindow, domain.TimeUnitDays)
	if err := validator.ValidateStruct(r); err != nil {
		return err
	}
	if err := u.repo.CreateRegion(ctx, r); err != nil {
		return err
	}
	slog.Info("Admin: region created", "id", r.ID, "name", r.Name)
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) UpdateRegion(ctx context.Context, r *domain.Region) error {
	r.Name = strings.TrimSpace(r.Name)
	normalizeWindow(&r.DeliveryWindow, domain.TimeUnitDays)
	if err := validator.ValidateStruct(r); err != nil {
		return err
	}
	if err := u.repo.UpdateRegion(ctx, r); err != nil {
		return wrapNotFound(err, "Région")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) DeleteRegion(ctx context.Context, id string) error {
	if err := u.repo.DeleteRegion(ctx, id); err != nil {
		return wrapNotFound(err, "Région")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) ToggleRegionStatus(ctx context.Context, id string) (domain.Status, error) {
	r, err := u.repo.GetRegion(ctx, id)
	if err != nil {
		return "", wrapNotFound(err, "Région")
	}
	next := r.Status.Toggle()
	if err := u.repo.SetRegionStatus(ctx, id, next); err != nil {
		return "", err
	}
	u.invalidate()
	return next, nil
}

// --- International zones ---

func (u *DeliveryAdminUsecase) ListZones(ctx context.Context) ([]domain.InternationalZone, error) {
	return u.repo.ListZones(ctx)
}

func (u *DeliveryAdminUsecase) GetZone(ctx context.Context, id string) (*domain.InternationalZone, error) {
	z, err := u.repo.GetZone(ctx, id)
	return z, wrapNotFound(err, "Zone")
}

func (u *DeliveryAdminUsecase) CreateZone(ctx context.Context, z *domain.InternationalZone) error {
	z.Name = strings.TrimSpace(z.Name)
	normalizeWindow(&z.DeliveryWindow, domain.TimeUnitDays)
	if err := validator.ValidateStruct(z); err != nil {
		return err
	}
	if err := u.repo.CreateZone(ctx, z); err != nil {
		return err
	}
	slog.Info("Admin: zone created", "id", z.ID, "name", z.Name, "countries", len(z.Countries))
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) UpdateZone(ctx context.Context, z *domain.InternationalZone) error {
	z.Name = strings.TrimSpace(z.Name)
	normalizeWindow(&z.DeliveryWindow, domain.TimeUnitDays)
	if err := validator.ValidateStruct(z); err != nil {
		return err
	}
	if err := u.repo.UpdateZone(ctx, z); err != nil {
		return wrapNotFound(err, "Zone")
	}
	u.invalidate()
	return nil
}

// DeleteZone refuses to remove a zone that still has tariffs.
func (u *DeliveryAdminUsecase) DeleteZone(ctx context.Context, id string) error {
	n, err := u.repo.CountTarifsByZone(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewValidationError(domain.CodeResourceInUse,
			fmt.Sprintf("Impossible de supprimer cette zone : %d tarif(s) l'utilisent", n))
	}
	if err := u.repo.DeleteZone(ctx, id); err != nil {
		return wrapNotFound(err, "Zone")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) ToggleZoneStatus(ctx context.Context, id string) (domain.Status, error) {
	z, err := u.repo.GetZone(ctx, id)
	if err != nil {
		return "", wrapNotFound(err, "Zone")
	}
	next := z.Status.Toggle()
	if err := u.repo.SetZoneStatus(ctx, id, next); err != nil {
		return "", err
	}
	u.invalidate()
	return next, nil
}

// --- Carriers ---

func (u *DeliveryAdminUsecase) ListTransporteurs(ctx context.Context) ([]domain.Transporteur, error) {
	return u.repo.ListTransporteurs(ctx)
}

func (u *DeliveryAdminUsecase) GetTransporteur(ctx context.Context, id string) (*domain.Transporteur, error) {
	t, err := u.repo.GetTransporteur(ctx, id)
	return t, wrapNotFound(err, "Transporteur")
}

func (u *DeliveryAdminUsecase) CreateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validator.ValidateStruct(t); err != nil {
		return err
	}
	if err := u.repo.CreateTransporteur(ctx, t); err != nil {
		return err
	}
	slog.Info("Admin: carrier created", "id", t.ID, "name", t.Name)
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) UpdateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validator.ValidateStruct(t); err != nil {
		return err
	}
	if err := u.repo.UpdateTransporteur(ctx, t); err != nil {
		return wrapNotFound(err, "Transporteur")
	}
	u.invalidate()
	return nil
}

// DeleteTransporteur refuses to remove a carrier that still has tariffs.
func (u *DeliveryAdminUsecase) DeleteTransporteur(ctx context.Context, id string) error {
	n, err := u.repo.CountTarifsByTransporteur(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewValidationError(domain.CodeResourceInUse,
			fmt.Sprintf("Impossible de supprimer ce transporteur : %d tarif(s) l'utilisent", n))
	}
	if err := u.repo.DeleteTransporteur(ctx, id); err != nil {
		return wrapNotFound(err, "Transporteur")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) ToggleTransporteurStatus(ctx context.Context, id string) (domain.Status, error) {
	t, err := u.repo.GetTransporteur(ctx, id)
	if err != nil {
		return "", wrapNotFound(err, "Transporteur")
	}
	next := t.Status.Toggle()
	if err := u.repo.SetTransporteurStatus(ctx, id, next); err != nil {
		return "", err
	}
	u.invalidate()
	return next, nil
}

// --- Zone tariffs ---

func (u *DeliveryAdminUsecase) ListTarifs(ctx context.Context) ([]domain.ZoneTarif, error) {
	return u.repo.ListTarifs(ctx)
}

func (u *DeliveryAdminUsecase) GetTarif(ctx context.Context, id string) (*domain.ZoneTarif, error) {
	t, err := u.repo.GetTarif(ctx, id)
	return t, wrapNotFound(err, "Tarif")
}

// resolveTarifRefs checks the zone and carrier exist and copies their
// names onto the tariff.
func (u *DeliveryAdminUsecase) resolveTarifRefs(ctx context.Context, t *domain.ZoneTarif) error {
	if t.DelaiLivraisonMax == 0 {
		t.DelaiLivraisonMax = t.DelaiLivraisonMin
	}
	if err := validator.ValidateStruct(t); err != nil {
		return err
	}

	fields := map[string]string{}
	zone, err := u.repo.GetZone(ctx, t.ZoneID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields["zoneId"] = "Zone introuvable"
	case err != nil:
		return err
	default:
		t.ZoneName = zone.Name
	}

	carrier, err := u.repo.GetTransporteur(ctx, t.TransporteurID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields["transporteurId"] = "Transporteur introuvable"
	case err != nil:
		return err
	default:
		t.TransporteurName = carrier.Name
	}

	if len(fields) > 0 {
		return domain.NewFieldErrors(fields)
	}
	return nil
}

func (u *DeliveryAdminUsecase) CreateTarif(ctx context.Context, t *domain.ZoneTarif) error {
	if err := u.resolveTarifRefs(ctx, t); err != nil {
		return err
	}
	if err := u.repo.CreateTarif(ctx, t); err != nil {
		return err
	}
	slog.Info("Admin: tariff created", "id", t.ID, "zone", t.ZoneName, "carrier", t.TransporteurName)
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) UpdateTarif(ctx context.Context, t *domain.ZoneTarif) error {
	if err := u.resolveTarifRefs(ctx, t); err != nil {
		return err
	}
	if err := u.repo.UpdateTarif(ctx, t); err != nil {
		return wrapNotFound(err, "Tarif")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) DeleteTarif(ctx context.Context, id string) error {
	if err := u.repo.DeleteTarif(ctx, id); err != nil {
		return wrapNotFound(err, "Tarif")
	}
	u.invalidate()
	return nil
}

func (u *DeliveryAdminUsecase) ToggleTarifStatus(ctx context.Context, id string) (domain.Status, error) {
	t, err := u.repo.GetTarif(ctx, id)
	if err != nil {
		return "", wrapNotFound(err, "Tarif")
	}
	next := t.Status.Toggle()
	if err := u.repo.SetTarifStatus(ctx, id, next); err != nil {
		return "", err
	}
	u.invalidate()
	return next, nil
}
