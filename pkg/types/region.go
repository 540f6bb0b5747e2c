// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Region is one of the 17 first-level administrative regions of Korea.
// The value is the short Korean name used in prompts and forms.
type Region string

const (
	RegionSeoul     Region = "서울"
	RegionBusan     Region = "부산"
	RegionDaegu     Region = "대구"
	RegionIncheon   Region = "인천"
	RegionGwangju   Region = "광주"
	RegionDaejeon   Region = "대전"
	RegionUlsan     Region = "울산"
	RegionSejong    Region = "세종"
	RegionGyeonggi  Region = "경기"
	RegionGangwon   Region = "강원"
	RegionChungbuk  Region = "충북"
	RegionChungnam  Region = "충남"
	RegionJeonbuk   Region = "전북"
	RegionJeonnam   Region = "전남"
	RegionGyeongbuk Region = "경북"
	RegionGyeongnam Region = "경남"
	RegionJeju      Region = "제주"
)

// regionCodes maps each region to its ASCII code, in form display order.
var regionCodes = []struct {
	region Region
	code   string
}{
	{RegionSeoul, "seoul"},
	{RegionBusan, "busan"},
	{RegionDaegu, "daegu"},
	{RegionIncheon, "incheon"},
	{RegionGwangju, "gwangju"},
	{RegionDaejeon, "daejeon"},
	{RegionUlsan, "ulsan"},
	{RegionSejong, "sejong"},
	{RegionGyeonggi, "gyeonggi"},
	{RegionGangwon, "gangwon"},
	{RegionChungbuk, "chungbuk"},
	{RegionChungnam, "chungnam"},
	{RegionJeonbuk, "jeonbuk"},
	{RegionJeonnam, "jeonnam"},
	{RegionGyeongbuk, "gyeongbuk"},
	{RegionGyeongnam, "gyeongnam"},
	{RegionJeju, "jeju"},
}

// Regions returns all regions in display order.
func Regions() []Region {
	out := make([]Region, 0, len(regionCodes))
	for _, rc := range regionCodes {
		out = append(out, rc.region)
	}
	return out
}

// Code returns the lowercase ASCII code of the region, or "" when the
// region is not one of the 17 known values.
func (r Region) Code() string {
	for _, rc := range regionCodes {
		if rc.region == r {
			return rc.code
		}
	}
	return ""
}

// Valid reports whether r is one of the known regions.
func (r Region) Valid() bool {
	return r.Code() != ""
}

func (r Region) String() string {
	return string(r)
}

// ParseRegion accepts either the Korean name ("경기") or the ASCII code
// ("gyeonggi", case-insensitive).
func ParseRegion(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	for _, rc := range regionCodes {
		if string(rc.region) == s || strings.EqualFold(rc.code, s) {
			return rc.region, true
		}
	}
	return "", false
}
