package api

import (
	"encoding/json"

	"github.com/chimed/chimed/common"
	"github.com/chimed/chimed/internal/server"
)

func (a *Api) scheduleHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.ScheduleParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	res, err := a.Schedule(&p)
	if err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	return common.UPDATE_SCHEDULE, res, nil
}

func (a *Api) snoozeHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.SnoozeParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_SNOOZE, nil, err
	}
	res, err := a.Snooze(&p)
	if err != nil {
		return common.UPDATE_SNOOZE, nil, err
	}
	return common.UPDATE_SNOOZE, res, nil
}

func (a *Api) deleteHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.DeleteParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_DELETE, nil, err
	}
	res, err := a.Delete(&p)
	if err != nil {
		return common.UPDATE_DELETE, nil, err
	}
	return common.UPDATE_DELETE, res, nil
}

func (a *Api) listHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.ListParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			return common.UPDATE_LIST, nil, err
		}
	}
	res, err := a.List(&p)
	if err != nil {
		return common.UPDATE_LIST, nil, err
	}
	return common.UPDATE_LIST, res, nil
}

func (a *Api) stopHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	res, err := a.StopActive()
	if err != nil {
		return common.UPDATE_STOP, nil, err
	}
	return common.UPDATE_STOP, res, nil
}

func (a *Api) clearHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	res, err := a.Clear()
	if err != nil {
		return common.UPDATE_CLEAR, nil, err
	}
	return common.UPDATE_CLEAR, res, nil
}

func (a *Api) attachHandler(conn *server.SyncConn, pool *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	pool.Attach(conn)
	return common.UPDATE_ATTACH, &common.AttachResponse{Attached: true}, nil
}

func (a *Api) focusHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.FocusParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_FOCUS, nil, err
	}
	res, err := a.UpdateFocus(p.State)
	if err != nil {
		return common.UPDATE_FOCUS, nil, err
	}
	return common.UPDATE_FOCUS, res, nil
}
