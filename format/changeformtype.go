package format

import "github.com/sagahold/essedit/errs"

// ChangeFormType is the dispatch key a change-form's type_field resolves
// to (the low 6 bits of type_field, looked up per game). The handful of
// types with dedicated body decoders (FLST, LVLN, LVLI, REFR, ACHR, NPC_,
// QUST, RELA) get their own named constants; everything else still gets a
// name for diagnostics but decodes through the Default body.
type ChangeFormType uint8

const (
	CFFormList ChangeFormType = iota
	CFLeveledNPC
	CFLeveledItem
	CFReference
	CFActorReference
	CFNPC
	CFRelationship
	CFQuest
	CFCell
	CFInfo
	CFDialogue
	CFPackage
	CFFaction
	CFActivator
	CFPotion
	CFAmmo
	CFArmor
	CFArtObject
	CFAcousticSpace
	CFBook
	CFClass
	CFContainer
	CFCameraPath
	CFDoor
	CFEncounterZone
	CFEffectShader
	CFEnchantment
	CFExplosion
	CFEyes
	CFFlora
	CFFurniture
	CFGlobal
	CFHazard
	CFHeadPart
	CFIdleAnim
	CFImageSpaceMod
	CFIngredient
	CFKey
	CFLocation
	CFLightingTemplate
	CFLight
	CFLeveledCreature
	CFLeveledSpell
	CFMaterialObject
	CFMessage
	CFMagicEffect
	CFMisc
	CFMovableStatic
	CFMusic
	CFNavMesh
	CFOutfit
	CFPerk
	CFProjectile
	CFRace
	CFRegion
	CFResearchEffectController
	CFScene
	CFScroll
	CFShout
	CFSoulGem
	CFStoryManagerQuestNode
	CFSoundCategory
	CFSound
	CFSpell
	CFStatic
	CFTalkingActivator
	CFTree
	CFTextureSet
	CFWater
	CFWeapon
	CFWordOfPower
	CFWorldspace
)

var changeFormTypeNames = map[ChangeFormType]string{
	CFFormList:                 "FLST",
	CFLeveledNPC:               "LVLN",
	CFLeveledItem:              "LVLI",
	CFReference:                "REFR",
	CFActorReference:           "ACHR",
	CFNPC:                      "NPC_",
	CFRelationship:             "RELA",
	CFQuest:                    "QUST",
	CFCell:                     "CELL",
	CFInfo:                     "INFO",
	CFDialogue:                 "DIAL",
	CFPackage:                  "PACK",
	CFFaction:                  "FACT",
	CFActivator:                "ACTI",
	CFPotion:                   "ALCH",
	CFAmmo:                     "AMMO",
	CFArmor:                    "ARMO",
	CFArtObject:                "ARTO",
	CFAcousticSpace:            "ASPC",
	CFBook:                     "BOOK",
	CFClass:                    "CLAS",
	CFContainer:                "CONT",
	CFCameraPath:               "CPTH",
	CFDoor:                     "DOOR",
	CFEncounterZone:            "ECZN",
	CFEffectShader:             "EFSH",
	CFEnchantment:              "ENCH",
	CFExplosion:                "EXPL",
	CFEyes:                     "EYES",
	CFFlora:                    "FLOR",
	CFFurniture:                "FURN",
	CFGlobal:                   "GLOB",
	CFHazard:                   "HAZD",
	CFHeadPart:                 "HDPT",
	CFIdleAnim:                 "IDLE",
	CFImageSpaceMod:            "IMAD",
	CFIngredient:               "INGR",
	CFKey:                      "KEYM",
	CFLocation:                 "LCTN",
	CFLightingTemplate:         "LGTM",
	CFLight:                    "LIGH",
	CFLeveledCreature:          "LVLC",
	CFLeveledSpell:             "LVSP",
	CFMaterialObject:           "MATO",
	CFMessage:                  "MESG",
	CFMagicEffect:              "MGEF",
	CFMisc:                     "MISC",
	CFMovableStatic:            "MSTT",
	CFMusic:                    "MUSC",
	CFNavMesh:                  "NAVM",
	CFOutfit:                   "OTFT",
	CFPerk:                     "PERK",
	CFProjectile:               "PROJ",
	CFRace:                     "RACE",
	CFRegion:                   "REGN",
	CFResearchEffectController: "RFCT",
	CFScene:                    "SCEN",
	CFScroll:                   "SCRL",
	CFShout:                    "SHOU",
	CFSoulGem:                  "SLGM",
	CFStoryManagerQuestNode:    "SMQN",
	CFSoundCategory:            "SNCT",
	CFSound:                    "SOUN",
	CFSpell:                    "SPEL",
	CFStatic:                   "STAT",
	CFTalkingActivator:         "TACT",
	CFTree:                     "TREE",
	CFTextureSet:               "TXST",
	CFWater:                    "WATR",
	CFWeapon:                   "WEAP",
	CFWordOfPower:              "WOOP",
	CFWorldspace:               "WRLD",
}

func (t ChangeFormType) String() string {
	if n, ok := changeFormTypeNames[t]; ok {
		return n
	}

	return "UNKNOWN"
}

// changeFormTypeTables maps each supported Game to its on-disk type-code
// table. Every game currently uses the same table, which maps each code to
// the ChangeFormType of the same numeric value; types without a dedicated
// decoder decode through the Default body.
var changeFormTypeTables = map[Game]map[uint8]ChangeFormType{
	GameSkyrimLE:     defaultChangeFormTable(),
	GameSkyrimSE:     defaultChangeFormTable(),
	GameSkyrimSwitch: defaultChangeFormTable(),
	GameFallout4:     defaultChangeFormTable(),
	GameFallout4VR:   defaultChangeFormTable(),
}

func defaultChangeFormTable() map[uint8]ChangeFormType {
	m := make(map[uint8]ChangeFormType, len(changeFormTypeNames))
	for t := range changeFormTypeNames {
		m[uint8(t)] = t
	}

	return m
}

// ResolveChangeFormType looks up the ChangeFormType for a given game and
// on-disk 6-bit type code. An unmapped code is a fatal FormatError.
func ResolveChangeFormType(game Game, code uint8) (ChangeFormType, error) {
	table, ok := changeFormTypeTables[game]
	if !ok {
		return 0, errs.ErrUnknownGame
	}
	t, ok := table[code&0x3F]
	if !ok {
		return 0, errs.ErrUnknownChangeFormType
	}

	return t, nil
}
