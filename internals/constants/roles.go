package constants

import "fmt"

// Company panel roles carried in the admin JWT ("role" or "roles").
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleViewer    = "viewer"
)

const ErrOnlyInviteManagers = "Apenas owner, admin ou recrutador podem acessar %s."

func RoleErrorInviteManager(feature string) string {
	return fmt.Sprintf(ErrOnlyInviteManagers, feature)
}

var (
	AllRoles = []string{
		RoleOwner,
		RoleAdmin,
		RoleRecruiter,
		RoleViewer,
	}

	// may issue or reissue invite codes
	InviteManagers = []string{
		RoleOwner,
		RoleAdmin,
		RoleRecruiter,
	}
)
