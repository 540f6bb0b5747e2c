// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "github.com/pdiddy/fund-matcher/pkg/types"

// AgencyGroup is the section of cards for one issuing agency.
type AgencyGroup struct {
	Agency string
	Funds  []types.Fund
}

// Count is the number shown in the section's badge.
func (g AgencyGroup) Count() int {
	return len(g.Funds)
}

// GroupByAgency groups funds by Agency. Groups appear in the order their
// agency first occurs, and funds keep their input order within a group.
func GroupByAgency(funds []types.Fund) []AgencyGroup {
	var groups []AgencyGroup
	index := make(map[string]int)
	for _, f := range funds {
		i, ok := index[f.Agency]
		if !ok {
			i = len(groups)
			index[f.Agency] = i
			groups = append(groups, AgencyGroup{Agency: f.Agency})
		}
		groups[i].Funds = append(groups[i].Funds, f)
	}
	return groups
}
