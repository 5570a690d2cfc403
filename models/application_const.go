package models

type ApplicationStatus string

const (
	AppStatusUnsubmitted ApplicationStatus = "unsubmitted"
	AppStatusSubmitted   ApplicationStatus = "submitted"
	AppStatusUnderReview ApplicationStatus = "under_review"
	AppStatusApproved    ApplicationStatus = "approved"
	AppStatusRejected    ApplicationStatus = "rejected"
)

var appStatusHumanName = map[ApplicationStatus]string{
	AppStatusUnsubmitted: "Unsubmitted",
	AppStatusSubmitted:   "Submitted",
	AppStatusUnderReview: "Under Review",
	AppStatusApproved:    "Approved",
	AppStatusRejected:    "Rejected",
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := appStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := appStatusHumanName[s]
	return ok
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == AppStatusApproved || s == AppStatusRejected
}

// ValidForStage reports whether the status/stage pair is a reachable workflow state.
func (s ApplicationStatus) ValidForStage(stage int) bool {
	switch s {
	case AppStatusUnsubmitted:
		return stage == StageOfficer
	case AppStatusSubmitted:
		return stage == StageChairperson
	case AppStatusUnderReview:
		return stage == StageCatchmentManager || stage == StageCatchmentChairperson
	case AppStatusApproved, AppStatusRejected:
		return stage == StageCatchmentChairperson
	}
	return false
}

const (
	StageOfficer              = 1
	StageChairperson          = 2
	StageCatchmentManager     = 3
	StageCatchmentChairperson = 4
)

var stageOwner = map[int]UserRole{
	StageOfficer:              PermittingOfficerRole,
	StageChairperson:          ChairpersonRole,
	StageCatchmentManager:     CatchmentManagerRole,
	StageCatchmentChairperson: CatchmentChairpersonRole,
}

func StageOwner(stage int) (UserRole, bool) {
	role, ok := stageOwner[stage]
	return role, ok
}

// StageOf returns the stage the role acts on, 0 for roles outside the pipeline.
func StageOf(role UserRole) int {
	for stage, owner := range stageOwner {
		if owner == role {
			return stage
		}
	}
	return 0
}

func StageName(stage int) string {
	role, ok := stageOwner[stage]
	if !ok {
		return "Unknown Stage"
	}
	return role.ToHuman()
}

type PermitType string

const (
	PermitTypeUrban               PermitType = "urban"
	PermitTypeBulkWater           PermitType = "bulk_water"
	PermitTypeIrrigation          PermitType = "irrigation"
	PermitTypeInstitution         PermitType = "institution"
	PermitTypeIndustrial          PermitType = "industrial"
	PermitTypeSurfaceWaterStorage PermitType = "surface_water_storage"
	PermitTypeSurfaceWaterFlow    PermitType = "surface_water_flow"
	PermitTypeTempering           PermitType = "tempering"
)

var permitTypeHumanName = map[PermitType]string{
	PermitTypeUrban:               "Urban",
	PermitTypeBulkWater:           "Bulk Water",
	PermitTypeIrrigation:          "Irrigation",
	PermitTypeInstitution:         "Institution",
	PermitTypeIndustrial:          "Industrial",
	PermitTypeSurfaceWaterStorage: "Surface Water (Storage)",
	PermitTypeSurfaceWaterFlow:    "Surface Water (Flow)",
	PermitTypeTempering:           "Tempering",
}

func (t PermitType) ToHuman() string {
	if human, exist := permitTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t PermitType) IsValid() bool {
	_, ok := permitTypeHumanName[t]
	return ok
}

type WaterSource string

const (
	WaterSourceGround  WaterSource = "ground_water"
	WaterSourceSurface WaterSource = "surface_water"
)

var waterSourceHumanName = map[WaterSource]string{
	WaterSourceGround:  "Ground Water",
	WaterSourceSurface: "Surface Water (Dam, River, Lake)",
}

func (w WaterSource) ToHuman() string {
	if human, exist := waterSourceHumanName[w]; exist {
		return human
	}
	return string(w)
}

func (w WaterSource) IsValid() bool {
	_, ok := waterSourceHumanName[w]
	return ok
}
