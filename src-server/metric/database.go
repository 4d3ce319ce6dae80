package metric

import (
	"context"
	"time"

	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("owner_id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
