package common

// Форматы callback data
const (
	CbNoop = "noop"

	CbClient = "client:" // client:<clientID>

	CbDrag       = "q_drag:"   // q_drag:<postID>
	CbDrop       = "q_drop:"   // q_drop:<slotID>
	CbDragEnd    = "q_drag_end"
	CbReschedule = "q_resched:" // q_resched:<postID> - диалог на дате самого поста
	CbTime       = "q_time:"    // q_time:09:00
	CbRemove     = "q_remove:"  // q_remove:<postID>
	CbTop        = "q_top:"     // q_top:<postID>

	CbHide    = "q_hide"
	CbMore    = "q_more"
	CbPrev    = "q_prev"
	CbRefresh = "q_refresh"
	CbPage    = "q_page:" // q_page:<n>
	CbDay     = "q_day:"  // q_day:2026-12-01

	CbCalendar     = "q_cal"
	CbCalendarWeek = "q_cal:" // q_cal:<weekOffset>

	CbTimeslots     = "ts_view"
	CbTimeslotsEdit = "ts_edit"
)
