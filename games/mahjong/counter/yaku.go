// Yaku catalogue
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package counter

// Yaku identifies one scoring pattern.
type Yaku uint8

const (
	YakuNone Yaku = iota

	// One han
	Riichi
	Ippatsu
	MenzenTsumo
	Pinfu
	Tanyao
	Iipeiko
	YakuHaku
	YakuHatsu
	YakuChun
	SeatWindEast
	SeatWindSouth
	SeatWindWest
	SeatWindNorth
	TableWindEast
	TableWindSouth
	TableWindWest
	TableWindNorth
	Haitei
	Houtei
	Chankan
	Rinshan

	// Two han (some drop one when open)
	DoubleRiichi
	Chiitoitsu
	Sanshoku
	Ittsu
	Chanta
	Toitoi
	Sanankou
	Sankantsu
	Shousangen
	Honroutou

	// Three han and up
	Junchan
	Ryanpeiko
	Honitsu
	Chinitsu

	// Counted tiles
	Dora
	InnerDora
	RedDora
	NorthDora

	// Nagashi mangan stands outside the han ladder.
	NagashiMangan

	// Yakuman
	Kokushi
	Suuankou
	Daisangen
	Tsuuiisou
	Chinroutou
	Ryuuiisou
	Shousuushii
	Daisuushii
	Chuuren
	Suukantsu
	Tenhou

	yakuNum
)

var yakuNames = map[Yaku]string{
	Riichi:         "立直",
	Ippatsu:        "一发",
	MenzenTsumo:    "门前清自摸和",
	Pinfu:          "平和",
	Tanyao:         "断幺九",
	Iipeiko:        "一杯口",
	YakuHaku:       "役牌 白",
	YakuHatsu:      "役牌 发",
	YakuChun:       "役牌 中",
	SeatWindEast:   "自风 东",
	SeatWindSouth:  "自风 南",
	SeatWindWest:   "自风 西",
	SeatWindNorth:  "自风 北",
	TableWindEast:  "场风 东",
	TableWindSouth: "场风 南",
	TableWindWest:  "场风 西",
	TableWindNorth: "场风 北",
	Haitei:         "海底捞月",
	Houtei:         "河底捞鱼",
	Chankan:        "抢杠",
	Rinshan:        "岭上开花",
	DoubleRiichi:   "两立直",
	Chiitoitsu:     "七对子",
	Sanshoku:       "三色同顺",
	Ittsu:          "一气通贯",
	Chanta:         "混全带幺九",
	Toitoi:         "对对和",
	Sanankou:       "三暗刻",
	Sankantsu:      "三杠子",
	Shousangen:     "小三元",
	Honroutou:      "混老头",
	Junchan:        "纯全带幺九",
	Ryanpeiko:      "二杯口",
	Honitsu:        "混一色",
	Chinitsu:       "清一色",
	Dora:           "宝牌",
	InnerDora:      "里宝牌",
	RedDora:        "赤宝牌",
	NorthDora:      "北宝牌",
	NagashiMangan:  "流局满贯",
	Kokushi:        "国士无双",
	Suuankou:       "四暗刻",
	Daisangen:      "大三元",
	Tsuuiisou:      "字一色",
	Chinroutou:     "清老头",
	Ryuuiisou:      "绿一色",
	Shousuushii:    "小四喜",
	Daisuushii:     "大四喜",
	Chuuren:        "九莲宝灯",
	Suukantsu:      "四杠子",
	Tenhou:         "天和",
}

func (y Yaku) String() string {
	if name, ok := yakuNames[y]; ok {
		return name
	}
	return "无役"
}

// IsYakuman reports whether the yaku is a limit hand.
func (y Yaku) IsYakuman() bool { return y >= Kokushi && y < yakuNum }

// IsTableWind reports whether the yaku is a table-wind yakuhai; the
// synchronous engine strips these because every player counts as
// dealer of their own board.
func (y Yaku) IsTableWind() bool { return y >= TableWindEast && y <= TableWindNorth }

var seatWindYaku = map[Base]Yaku{East: SeatWindEast, South: SeatWindSouth, West: SeatWindWest, North: SeatWindNorth}
var tableWindYaku = map[Base]Yaku{East: TableWindEast, South: TableWindSouth, West: TableWindWest, North: TableWindNorth}
var dragonYaku = map[Base]Yaku{Haku: YakuHaku, Hatsu: YakuHatsu, Chun: YakuChun}
