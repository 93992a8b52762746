package common

import (
	"bytes"
	"image/color"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 22.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20

	// slotDisplayDuration высота блока поста на картинке
	slotDisplayDuration = 45 * time.Minute
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{10, 102, 194, 60}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	inactiveDayColor = color.NRGBA{210, 210, 210, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotScheduledColor = color.RGBA{112, 181, 249, 230}
	slotPostedColor    = color.RGBA{158, 158, 158, 200}
	slotErrorColor     = color.RGBA{255, 150, 150, 255}
	slotEmptyColor     = color.RGBA{255, 255, 255, 160}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotErrorTextColor = color.RGBA{120, 40, 50, 255}
	slotEmptyTextColor = color.RGBA{120, 125, 130, 220}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{90, 95, 100, 220}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont ставит шрифт Go нужного стиля, basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	var fontData []byte
	switch fontStyle {
	case FontStyleBold:
		fontData = gobold.TTF
	case FontStyleMedium:
		fontData = gomedium.TTF
	default:
		fontData = goregular.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData)
		if err == nil {
			cachedFonts[fontStyle] = parsed
		}
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует неделю очереди, начиная с понедельника weekStart.
// days - группы дней из проекции (посты всех статусов и пустые слоты).
func GenerateWeekImage(weekStart time.Time, days []queue.DayGroup, now time.Time) ([]byte, error) {
	weekStart = normalizeToDay(weekStart)
	weekEnd := weekStart.AddDate(0, 0, totalDaysInWeek-1)
	today := normalizeToDay(now.In(weekStart.Location()))
	highlightToday := !today.Before(weekStart) && !today.After(weekEnd)

	byDay := make(map[string]queue.DayGroup, len(days))
	for _, g := range days {
		byDay[g.Key] = g
	}
	hours := calculateHourRange(weekStart, byDay)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart, weekEnd)
	drawHourLabels(dc, hours, cellHeight)

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		date := weekStart.AddDate(0, 0, dayIndex)
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		group, ok := byDay[date.Format("2006-01-02")]

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, highlightToday && date.Equal(today), ok && group.Active)
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, s := range group.Slots {
			drawSlot(dc, s, x, y, dayWidth, hours, cellHeight)
		}
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now.In(weekStart.Location()), hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calculateHourRange определяет диапазон часов недели по слотам
func calculateHourRange(weekStart time.Time, byDay map[string]queue.DayGroup) hourRange {
	minHour := 24
	maxHour := 0

	for i := 0; i < totalDaysInWeek; i++ {
		for _, s := range byDay[weekStart.AddDate(0, 0, i).Format("2006-01-02")].Slots {
			at := s.Time()
			endH := int(math.Ceil(float64(at.Hour()) + float64(at.Minute())/60 + slotDisplayDuration.Hours()))
			if at.Hour() < minHour {
				minHour = at.Hour()
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, start, end time.Time) {
	title := formatting.FormatMonth(start.Year(), start.Month())
	if start.Month() != end.Month() {
		title = start.Month().String() + " - " + formatting.FormatMonth(end.Year(), end.Month())
	}

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday, active bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case !active:
		dc.SetColor(inactiveDayColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(date.Format("Mon"), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует один слот: пост или пустой таймслот
func drawSlot(dc *gg.Context, slot queue.Slot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	at := slot.Time()
	startHour := float64(at.Hour()) + float64(at.Minute())/60.0

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := slotDisplayDuration.Hours() * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)
	left := x + float64(dayPaddingX)

	fillColor, fgColor := slotColors(slot)

	if slot.IsEmpty() {
		dc.SetColor(fillColor)
		dc.DrawRoundedRectangle(left, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
		dc.Fill()
		dc.SetColor(fgColor)
		dc.SetLineWidth(1)
		dc.SetDash(4, 3)
		dc.DrawRoundedRectangle(left, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
		dc.Stroke()
		dc.SetDash()
	} else {
		// Тень
		dc.SetColor(slotShadowColor)
		dc.DrawRoundedRectangle(left+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
		dc.Fill()

		dc.SetColor(fillColor)
		dc.DrawRoundedRectangle(left, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
		dc.Fill()

		dc.SetColor(darkenColor(fillColor, 0.8))
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(left, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
		dc.Stroke()
	}

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(fgColor)
	txtX := left + 8
	txtY := slotY + 18
	dc.DrawStringAnchored(slot.Clock(), txtX, txtY, 0, 0)

	if caption := slotCaption(slot); caption != "" && slotHeight > 36 {
		loadFont(dc, slotTimeFontSize-3)
		dc.DrawStringAnchored(formatting.Truncate(caption, 18), txtX, txtY+16, 0, 0)
	}
}

// slotCaption профиль поста или назначенные на пустой слот профили
func slotCaption(slot queue.Slot) string {
	switch s := slot.(type) {
	case queue.FilledSlot:
		if s.ProfileName != "" {
			return s.ProfileName
		}
		return s.Preview
	case queue.EmptySlot:
		if len(s.Profiles) > 0 {
			return s.Profiles[0].Name
		}
	}
	return ""
}

// slotColors цвет заливки и текста по виду слота и статусу поста
func slotColors(slot queue.Slot) (color.RGBA, color.RGBA) {
	f, ok := slot.(queue.FilledSlot)
	if !ok {
		return slotEmptyColor, slotEmptyTextColor
	}
	switch {
	case f.Post.Status.Is(model.Error):
		return slotErrorColor, slotErrorTextColor
	case f.Post.Status.Is(model.Posted):
		return slotPostedColor, slotTextColor
	default:
		return slotScheduledColor, slotTextColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 130.0

	dc.SetColor(legendTextColor)

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Scheduled", slotScheduledColor},
		{"Posted", slotPostedColor},
		{"Error", slotErrorColor},
		{"Empty slot", slotEmptyTextColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
