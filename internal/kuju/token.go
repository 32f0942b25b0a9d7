package kuju

import (
	"fmt"
	"strings"
)

// Token identifies the semantic kind of a block. In binary files it is the
// 16-bit id of the block record; in textual files it is looked up by name.
//
// The numeric ids below are this package's own numbering, not the ids MSTS
// tools write. Binary files produced by MSTS will decode their framing but
// their records will not map onto these tokens; textual files are matched by
// name and are unaffected.
type Token uint16

// TokenUnknown tags textual blocks whose name is not in the table.
const TokenUnknown Token = 0

// Token ids of the consist and vehicle vocabulary.
const (
	TokenComment Token = iota + 1
	TokenSkip
	TokenTrain
	TokenTrainCfg
	TokenName
	TokenSerial
	TokenMaxVelocity
	TokenNextWagonUID
	TokenDurability
	TokenEngine
	TokenWagon
	TokenUiD
	TokenEngineData
	TokenWagonData
	TokenFlip
	TokenType
	TokenWagonShape
	TokenSize
	TokenMass
	TokenCentreOfGravity
	TokenWheelRadius
	TokenCoupling
	TokenBuffers
	TokenAdheasion
	TokenDerailRailHeight
	TokenFreightAnim
	TokenLights
	TokenSound
	TokenInside
	TokenBrakeSystemType
	TokenBrakeEquipmentType
	TokenMaxBrakeForce
	TokenEffects
	TokenDescription
	TokenCabView
	TokenMaxPower
	TokenMaxForce
	TokenMaxCurrent
	TokenNumWheels
)

var tokenNames = map[Token]string{
	TokenComment:            "comment",
	TokenSkip:               "_Skip",
	TokenTrain:              "Train",
	TokenTrainCfg:           "TrainCfg",
	TokenName:               "Name",
	TokenSerial:             "Serial",
	TokenMaxVelocity:        "MaxVelocity",
	TokenNextWagonUID:       "NextWagonUID",
	TokenDurability:         "Durability",
	TokenEngine:             "Engine",
	TokenWagon:              "Wagon",
	TokenUiD:                "UiD",
	TokenEngineData:         "EngineData",
	TokenWagonData:          "WagonData",
	TokenFlip:               "Flip",
	TokenType:               "Type",
	TokenWagonShape:         "WagonShape",
	TokenSize:               "Size",
	TokenMass:               "Mass",
	TokenCentreOfGravity:    "CentreOfGravity",
	TokenWheelRadius:        "WheelRadius",
	TokenCoupling:           "Coupling",
	TokenBuffers:            "Buffers",
	TokenAdheasion:          "Adheasion",
	TokenDerailRailHeight:   "DerailRailHeight",
	TokenFreightAnim:        "FreightAnim",
	TokenLights:             "Lights",
	TokenSound:              "Sound",
	TokenInside:             "Inside",
	TokenBrakeSystemType:    "BrakeSystemType",
	TokenBrakeEquipmentType: "BrakeEquipmentType",
	TokenMaxBrakeForce:      "MaxBrakeForce",
	TokenEffects:            "Effects",
	TokenDescription:        "Description",
	TokenCabView:            "CabView",
	TokenMaxPower:           "MaxPower",
	TokenMaxForce:           "MaxForce",
	TokenMaxCurrent:         "MaxCurrent",
	TokenNumWheels:          "NumWheels",
}

// tokensByName is keyed by lower-case name; textual files are not
// consistent about capitalisation.
var tokensByName = func() map[string]Token {
	m := make(map[string]Token, len(tokenNames))
	for tok, name := range tokenNames {
		m[strings.ToLower(name)] = tok
	}
	return m
}()

// LookupToken returns the token for a textual block name, or TokenUnknown.
func LookupToken(name string) Token {
	if tok, ok := tokensByName[strings.ToLower(name)]; ok {
		return tok
	}
	return TokenUnknown
}

// Known reports whether t is part of the token table.
func (t Token) Known() bool {
	_, ok := tokenNames[t]
	return ok
}

func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if t == TokenUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("Token(%d)", uint16(t))
}

// tokenIn reports whether t is one of set. An empty set allows everything.
func tokenIn(t Token, set []Token) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
