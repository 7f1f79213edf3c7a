package order

import (
	"context"
	"time"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service creates portal orders. Each dimension of the commercial context
// is taken from the request when supplied, else from the buyer's stored
// defaults, and validated against the agreement's own links before any line
// is priced.
type Service struct {
	orders         order.Repository
	profiles       party.BuyerProfileRepository
	counterparties party.CounterpartyRepository
	agreements     party.AgreementRepository
	contracts      party.ContractRepository
	warehouses     party.WarehouseRepository
	priceTypes     party.PriceTypeRepository
	addresses      party.AddressRepository
	products       catalog.ProductRepository
	packages       catalog.PackageRepository
	resolver       *appricing.Resolver
	log            *zap.Logger
}

// NewService creates an order Service
func NewService(
	orders order.Repository,
	profiles party.BuyerProfileRepository,
	counterparties party.CounterpartyRepository,
	agreements party.AgreementRepository,
	contracts party.ContractRepository,
	warehouses party.WarehouseRepository,
	priceTypes party.PriceTypeRepository,
	addresses party.AddressRepository,
	products catalog.ProductRepository,
	packages catalog.PackageRepository,
	resolver *appricing.Resolver,
	log *zap.Logger,
) *Service {
	return &Service{
		orders:         orders,
		profiles:       profiles,
		counterparties: counterparties,
		agreements:     agreements,
		contracts:      contracts,
		warehouses:     warehouses,
		priceTypes:     priceTypes,
		addresses:      addresses,
		products:       products,
		packages:       packages,
		resolver:       resolver,
		log:            log.Named("order.service"),
	}
}

// orderContext is the flattened commercial context an order is created in
type orderContext struct {
	counterparty *party.Counterparty
	agreement    *party.ClientAgreement
	contractID   *uuid.UUID
	warehouseID  *uuid.UUID
	priceTypeID  *uuid.UUID
	addressID    *uuid.UUID
}

// Create builds, prices and persists an order for the buyer. The order and
// all its items are written in one repository call; nothing is stored when
// any line fails.
func (s *Service) Create(ctx context.Context, buyerID uuid.UUID, req CreateOrderRequest) (*order.Order, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("order must contain at least one item")
	}

	octx, err := s.resolveContext(ctx, buyerID, req)
	if err != nil {
		return nil, err
	}

	currency := "RUB"
	if octx.agreement != nil && octx.agreement.Currency != "" {
		currency = octx.agreement.Currency
	}

	o, err := order.NewOrder(buyerID, octx.counterparty.ID, currency)
	if err != nil {
		return nil, err
	}
	if octx.agreement != nil {
		o.AgreementID = &octx.agreement.ID
	}
	o.ContractID = octx.contractID
	o.WarehouseID = octx.warehouseID
	o.PriceTypeID = octx.priceTypeID
	o.DeliveryAddressID = octx.addressID
	o.Comment = req.Comment

	resolved := pricing.ResolvedContext{
		CounterpartyID: &octx.counterparty.ID,
		PriceTypeID:    octx.priceTypeID,
	}
	if octx.agreement != nil {
		resolved.AgreementID = &octx.agreement.ID
	}

	now := time.Now()
	for _, line := range req.Items {
		if err := s.addLine(ctx, o, resolved, line, now); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("guid", o.GUID),
		zap.String("buyer_id", buyerID.String()),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.TotalAmount.String()))
	return o, nil
}

func (s *Service) addLine(ctx context.Context, o *order.Order, resolved pricing.ResolvedContext, line CreateOrderItem, at time.Time) error {
	product, err := s.products.FindByGUID(ctx, line.ProductGUID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return shared.NewValidationError("product %s is not active", product.Name)
	}

	multiplier := decimal.NewFromInt(1)
	var packageID *uuid.UUID
	if line.PackageID != nil {
		pkg, err := s.packages.FindByID(ctx, *line.PackageID)
		if err != nil {
			return err
		}
		if !pkg.BelongsTo(product.ID) {
			return shared.NewValidationError("package does not belong to product %s", product.Name)
		}
		multiplier = pkg.Multiplier
		packageID = &pkg.ID
	}

	quote, err := s.resolver.ResolveForProduct(ctx, product.ID, resolved, at)
	if err != nil {
		return err
	}
	if line.Quantity.LessThan(quote.MinQty) {
		return shared.NewValidationError("quantity %s for product %s is below the minimum %s",
			line.Quantity.String(), product.Name, quote.MinQty.String())
	}

	_, err = o.AddItem(product.ID, product.Name, packageID, line.Quantity, multiplier, quote.Price)
	return err
}

// resolveContext builds the order's commercial context. Per dimension the
// explicit request value wins over the buyer's stored default; a value that
// conflicts with the agreement's own link for the same dimension is a
// validation error. The counterparty is the one dimension that must resolve.
func (s *Service) resolveContext(ctx context.Context, buyerID uuid.UUID, req CreateOrderRequest) (*orderContext, error) {
	profile, err := s.profiles.FindByBuyerID(ctx, buyerID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if profile == nil {
		profile = &party.BuyerProfile{}
	}

	octx := &orderContext{}

	agreement, err := s.resolveAgreement(ctx, req.AgreementGUID, profile.AgreementID)
	if err != nil {
		return nil, err
	}
	octx.agreement = agreement

	octx.counterparty, err = s.resolveCounterparty(ctx, req.CounterpartyGUID, profile.CounterpartyID, agreement)
	if err != nil {
		return nil, err
	}

	octx.contractID, err = s.resolveContract(ctx, req.ContractGUID, profile.ContractID, agreement, octx.counterparty.ID)
	if err != nil {
		return nil, err
	}

	octx.warehouseID, err = s.resolveWarehouse(ctx, req.WarehouseGUID, profile.WarehouseID, agreement)
	if err != nil {
		return nil, err
	}

	octx.priceTypeID, err = s.resolvePriceType(ctx, req.PriceTypeGUID, profile.PriceTypeID, agreement)
	if err != nil {
		return nil, err
	}

	octx.addressID, err = s.resolveAddress(ctx, req.DeliveryAddressID, profile.DeliveryAddressID, octx.counterparty.ID)
	if err != nil {
		return nil, err
	}

	return octx, nil
}

func (s *Service) resolveAgreement(ctx context.Context, guid string, defaultID *uuid.UUID) (*party.ClientAgreement, error) {
	var agreement *party.ClientAgreement
	var err error
	switch {
	case guid != "":
		agreement, err = s.agreements.FindByGUID(ctx, guid)
	case defaultID != nil:
		agreement, err = s.agreements.FindByID(ctx, *defaultID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !agreement.IsActive {
		return nil, shared.NewValidationError("agreement %s is not active", agreement.Name)
	}
	return agreement, nil
}

func (s *Service) resolveCounterparty(ctx context.Context, guid string, defaultID *uuid.UUID, agreement *party.ClientAgreement) (*party.Counterparty, error) {
	var counterparty *party.Counterparty
	var err error
	explicit := false
	switch {
	case guid != "":
		counterparty, err = s.counterparties.FindByGUID(ctx, guid)
		explicit = true
	case defaultID != nil:
		counterparty, err = s.counterparties.FindByID(ctx, *defaultID)
		explicit = true
	case agreement != nil && agreement.CounterpartyID != nil:
		counterparty, err = s.counterparties.FindByID(ctx, *agreement.CounterpartyID)
	default:
		return nil, shared.NewValidationError("order counterparty could not be resolved")
	}
	if err != nil {
		return nil, err
	}
	if !counterparty.IsActive {
		return nil, shared.NewValidationError("counterparty %s is not active", counterparty.Name)
	}
	if explicit && agreement != nil && agreement.CounterpartyID != nil && *agreement.CounterpartyID != counterparty.ID {
		return nil, shared.NewValidationError("counterparty does not match the agreement's counterparty")
	}
	return counterparty, nil
}

func (s *Service) resolveContract(ctx context.Context, guid string, defaultID *uuid.UUID, agreement *party.ClientAgreement, counterpartyID uuid.UUID) (*uuid.UUID, error) {
	var contract *party.ClientContract
	var err error
	explicit := false
	switch {
	case guid != "":
		contract, err = s.contracts.FindByGUID(ctx, guid)
		explicit = true
	case defaultID != nil:
		contract, err = s.contracts.FindByID(ctx, *defaultID)
		explicit = true
	case agreement != nil && agreement.ContractID != nil:
		contract, err = s.contracts.FindByID(ctx, *agreement.ContractID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !contract.IsActive {
		return nil, shared.NewValidationError("contract %s is not active", contract.Name)
	}
	if contract.CounterpartyID != counterpartyID {
		return nil, shared.NewValidationError("contract does not belong to the order counterparty")
	}
	if explicit && agreement != nil && agreement.ContractID != nil && *agreement.ContractID != contract.ID {
		return nil, shared.NewValidationError("contract does not match the agreement's contract")
	}
	return &contract.ID, nil
}

func (s *Service) resolveWarehouse(ctx context.Context, guid string, defaultID *uuid.UUID, agreement *party.ClientAgreement) (*uuid.UUID, error) {
	var warehouse *party.Warehouse
	var err error
	explicit := false
	switch {
	case guid != "":
		warehouse, err = s.warehouses.FindByGUID(ctx, guid)
		explicit = true
	case defaultID != nil:
		warehouse, err = s.warehouses.FindByID(ctx, *defaultID)
		explicit = true
	case agreement != nil && agreement.WarehouseID != nil:
		warehouse, err = s.warehouses.FindByID(ctx, *agreement.WarehouseID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive {
		return nil, shared.NewValidationError("warehouse %s is not active", warehouse.Name)
	}
	if explicit && agreement != nil && agreement.WarehouseID != nil && *agreement.WarehouseID != warehouse.ID {
		return nil, shared.NewValidationError("warehouse does not match the agreement's warehouse")
	}
	return &warehouse.ID, nil
}

func (s *Service) resolvePriceType(ctx context.Context, guid string, defaultID *uuid.UUID, agreement *party.ClientAgreement) (*uuid.UUID, error) {
	var priceType *party.PriceType
	var err error
	explicit := false
	switch {
	case guid != "":
		priceType, err = s.priceTypes.FindByGUID(ctx, guid)
		explicit = true
	case defaultID != nil:
		priceType, err = s.priceTypes.FindByID(ctx, *defaultID)
		explicit = true
	case agreement != nil && agreement.PriceTypeID != nil:
		priceType, err = s.priceTypes.FindByID(ctx, *agreement.PriceTypeID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !priceType.IsActive {
		return nil, shared.NewValidationError("price type %s is not active", priceType.Name)
	}
	if explicit && agreement != nil && agreement.PriceTypeID != nil && *agreement.PriceTypeID != priceType.ID {
		return nil, shared.NewValidationError("price type does not match the agreement's price type")
	}
	return &priceType.ID, nil
}

func (s *Service) resolveAddress(ctx context.Context, explicitID, defaultID *uuid.UUID, counterpartyID uuid.UUID) (*uuid.UUID, error) {
	id := explicitID
	if id == nil {
		id = defaultID
	}
	if id == nil {
		return nil, nil
	}
	address, err := s.addresses.FindByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(counterpartyID) {
		return nil, shared.NewValidationError("delivery address does not belong to the order counterparty")
	}
	return &address.ID, nil
}
