package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/middleware"
)

// Adjustment linkage was recorded inconsistently over time: an explicit
// column, a join table, a legacy items table, or only prose in the entry
// description. These patterns pull ids out of the prose forms.
var (
	descReconciliationIDPattern = regexp.MustCompile(`(?i)reconciliation id:\s*([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})`)
	descAccountIDPattern        = regexp.MustCompile(`(?i)account\s+([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})`)
)

// DescriptionAdjustmentMarker is the literal tag written into descriptions of
// synthesized adjustment entries.
const DescriptionAdjustmentMarker = "[RECONCILIATION]"

// resolveStrategy is one lookup step in the resolver cascade. It returns an
// empty id for "no match"; an error is logged and skipped, never aborting
// the cascade.
type resolveStrategy struct {
	name string
	fn   func(ctx context.Context, entry domain.FinancialEntry) (string, error)
}

// ReconciliationResolver determines whether a ledger entry is a
// reconciliation adjustment and which reconciliation it belongs to, degrading
// through a strict priority order of lookup strategies.
type ReconciliationResolver struct {
	reconRepo  portsrepo.ReconciliationRepository
	strategies []resolveStrategy
}

// NewReconciliationResolver creates a resolver with the full strategy chain.
func NewReconciliationResolver(reconRepo portsrepo.ReconciliationRepository) *ReconciliationResolver {
	r := &ReconciliationResolver{reconRepo: reconRepo}
	r.strategies = []resolveStrategy{
		{name: "explicit_field", fn: r.fromExplicitField},
		{name: "link_table", fn: r.fromLinkTable},
		{name: "legacy_items_table", fn: r.fromLegacyItemsTable},
		{name: "description_reconciliation_id", fn: r.fromDescriptionReconciliationID},
		{name: "description_account_id", fn: r.fromDescriptionAccountID},
		{name: "entry_account", fn: r.fromEntryAccount},
		{name: "latest_overall", fn: r.fromLatestOverall},
	}
	return r
}

var _ portssvc.ReconciliationResolverFacade = (*ReconciliationResolver)(nil)

// IsReconciliationAdjustment classifies an entry as a reconciliation
// adjustment. The classifier is deliberately broad: a false positive only
// triggers a balance fix-up that turns out unnecessary, while a false
// negative leaves a silently wrong book balance.
func (r *ReconciliationResolver) IsReconciliationAdjustment(entry domain.FinancialEntry) bool {
	if entry.IsAdjustment || entry.ReconciliationID != "" {
		return true
	}
	if strings.EqualFold(entry.PaymentMethod, domain.PaymentMethodReconciliation) {
		return true
	}
	desc := strings.ToLower(entry.Description)
	if strings.Contains(entry.Description, DescriptionAdjustmentMarker) {
		return true
	}
	if strings.Contains(desc, "reconciliation adjustment") || strings.Contains(desc, "reconcil") {
		return true
	}
	return false
}

// ResolveReconciliationID runs the strategy cascade, stopping at the first
// match. Returns ("", false) only after every strategy has reported no match.
func (r *ReconciliationResolver) ResolveReconciliationID(ctx context.Context, entry domain.FinancialEntry) (string, bool) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, strategy := range r.strategies {
		id, err := strategy.fn(ctx, entry)
		if err != nil {
			// Individual strategy failures are routine; continue the chain.
			logger.Debug("Reconciliation lookup strategy failed",
				slog.String("strategy", strategy.name),
				slog.String("entry_id", entry.EntryID),
				slog.String("error", err.Error()))
			continue
		}
		if id != "" {
			logger.Info("Reconciliation resolved",
				slog.String("strategy", strategy.name),
				slog.String("entry_id", entry.EntryID),
				slog.String("reconciliation_id", id))
			return id, true
		}
	}

	logger.Warn("No reconciliation resolved after exhausting all strategies", slog.String("entry_id", entry.EntryID))
	return "", false
}

func (r *ReconciliationResolver) fromExplicitField(_ context.Context, entry domain.FinancialEntry) (string, error) {
	return entry.ReconciliationID, nil
}

func (r *ReconciliationResolver) fromLinkTable(ctx context.Context, entry domain.FinancialEntry) (string, error) {
	link, err := r.reconRepo.FindLinkByEntryID(ctx, entry.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return link.ReconciliationID, nil
}

func (r *ReconciliationResolver) fromLegacyItemsTable(ctx context.Context, entry domain.FinancialEntry) (string, error) {
	id, err := r.reconRepo.FindLegacyItemReconciliationID(ctx, entry.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (r *ReconciliationResolver) fromDescriptionReconciliationID(ctx context.Context, entry domain.FinancialEntry) (string, error) {
	match := descReconciliationIDPattern.FindStringSubmatch(entry.Description)
	if match == nil {
		return "", nil
	}
	// Confirm the parsed id still points at a real reconciliation.
	rec, err := r.reconRepo.FindReconciliationByID(ctx, match[1])
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return rec.ReconciliationID, nil
}

func (r *ReconciliationResolver) fromDescriptionAccountID(ctx context.Context, entry domain.FinancialEntry) (string, error) {
	match := descAccountIDPattern.FindStringSubmatch(entry.Description)
	if match == nil {
		return "", nil
	}
	return r.latestForAccount(ctx, match[1])
}

func (r *ReconciliationResolver) fromEntryAccount(ctx context.Context, entry domain.FinancialEntry) (string, error) {
	if entry.AccountID == "" {
		return "", nil
	}
	return r.latestForAccount(ctx, entry.AccountID)
}

func (r *ReconciliationResolver) fromLatestOverall(ctx context.Context, _ domain.FinancialEntry) (string, error) {
	rec, err := r.reconRepo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return rec.ReconciliationID, nil
}

func (r *ReconciliationResolver) latestForAccount(ctx context.Context, accountID string) (string, error) {
	rec, err := r.reconRepo.FindLatestByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return rec.ReconciliationID, nil
}
