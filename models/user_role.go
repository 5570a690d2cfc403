package models

type UserRole string

const (
	PermittingOfficerRole    UserRole = "permitting_officer"
	ChairpersonRole          UserRole = "chairperson"
	CatchmentManagerRole     UserRole = "catchment_manager"
	CatchmentChairpersonRole UserRole = "catchment_chairperson"
	PermitSupervisorRole     UserRole = "permit_supervisor"
	IctRole                  UserRole = "ict"
)

var roleHumanName = map[UserRole]string{
	PermittingOfficerRole:    "Permitting Officer",
	ChairpersonRole:          "Upper Manyame Sub Catchment Council Chairperson",
	CatchmentManagerRole:     "Manyame Catchment Manager",
	CatchmentChairpersonRole: "Manyame Catchment Chairperson",
	PermitSupervisorRole:     "Permit Supervisor",
	IctRole:                  "ICT",
}

var AllRoles = []UserRole{
	PermittingOfficerRole,
	ChairpersonRole,
	CatchmentManagerRole,
	CatchmentChairpersonRole,
	PermitSupervisorRole,
	IctRole,
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

func (r UserRole) IsIct() bool {
	return r == IctRole
}

// IsOverseer roles see every application and may manage any document
func (r UserRole) IsOverseer() bool {
	return r == IctRole || r == PermitSupervisorRole
}

const SystemUser = "System"
