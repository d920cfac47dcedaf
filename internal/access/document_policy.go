package access

import (
	"context"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
)

// DocumentPolicy extends the shared facility rules with folder deletion.
type DocumentPolicy struct {
	facilityPolicy
	ac AccessControl
}

// DeleteFolder allows any editor to remove an empty folder, but a folder with
// children or files requires the admin role regardless of edit rights.
func (p *DocumentPolicy) DeleteFolder(ctx context.Context, user *model.User, facilityID uint, childCount int64, fileCount int64) (bool, error) {
	caps, err := p.ac.Capabilities(ctx, user, facilityID)
	if err != nil {
		return false, err
	}
	if childCount > 0 || fileCount > 0 {
		return user.IsAdmin() && caps.Has(CapView), nil
	}
	return caps.Has(CapEdit) || (user.IsAdmin() && caps.Has(CapView)), nil
}
