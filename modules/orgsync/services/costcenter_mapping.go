package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/workforce/modules/orgsync/domain/costcenter"
)

// targetCostCenterMaps index a target organization's active cost centers for
// the resolution paths: explicit id, code match, name match.
type targetCostCenterMaps struct {
	byID   map[uuid.UUID]*costcenter.CostCenter
	byCode map[string]*costcenter.CostCenter
	byName map[string]*costcenter.CostCenter
}

func buildTargetCostCenterMaps(ctx context.Context, repo costcenter.Repository, orgID uuid.UUID) (*targetCostCenterMaps, error) {
	ccs, err := repo.GetActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	maps := &targetCostCenterMaps{
		byID:   make(map[uuid.UUID]*costcenter.CostCenter, len(ccs)),
		byCode: make(map[string]*costcenter.CostCenter, len(ccs)),
		byName: make(map[string]*costcenter.CostCenter, len(ccs)),
	}
	for _, cc := range ccs {
		maps.byID[cc.ID] = cc
		if code := normalizeKey(cc.Code); code != "" {
			maps.byCode[code] = cc
		}
		if name := normalizeKey(cc.Name); name != "" {
			maps.byName[name] = cc
		}
	}
	return maps, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveMappedCostCenter translates a source cost center into the equivalent
// target cost center. A nil source means the calendar is org-wide; that is
// not an error and resolves to no mapping silently. An explicit operator
// mapping wins when it points at a real target cost center; otherwise it is
// discarded with a warning and automatic matching runs: by code first (unless
// mapping by name was requested), then by name. No match at all yields a
// warning naming the source cost center.
func resolveMappedCostCenter(
	src *costcenter.CostCenter,
	mode MappingMode,
	maps *targetCostCenterMaps,
	explicitID *uuid.UUID,
) (*costcenter.CostCenter, []string) {
	if src == nil {
		return nil, nil
	}

	var warnings []string
	if explicitID != nil {
		if cc, ok := maps.byID[*explicitID]; ok {
			return cc, nil
		}
		warnings = append(warnings, fmt.Sprintf(
			"explicit mapping for cost center %q (code %q) does not point to a cost center in the target organization; falling back to automatic matching",
			src.Name, src.Code,
		))
	}

	if mode != MapByName {
		if code := normalizeKey(src.Code); code != "" {
			if cc, ok := maps.byCode[code]; ok {
				return cc, warnings
			}
		}
	}

	// Name match is always attempted as the secondary path.
	if name := normalizeKey(src.Name); name != "" {
		if cc, ok := maps.byName[name]; ok {
			return cc, warnings
		}
	}

	warnings = append(warnings, fmt.Sprintf(
		"cost center %q (code %q) has no match in the target organization",
		src.Name, src.Code,
	))
	return nil, warnings
}
