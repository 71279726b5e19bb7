package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"learncraft/internal/model"
	"learncraft/internal/repository"
	"learncraft/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageSubjectName
	stageSubjectDescription
	stageSubjectColor
	stageRoutineName
	stageRoutineStart
	stageRoutineEnd
)

const (
	cbTogglePrefix        = "toggle:"
	cbPriorityPrefix      = "prio:"
	cbDeleteSubjectPrefix = "delsubject:"
	cbDeleteRoutinePrefix = "delroutine:"
	cbGenerate            = "generate"
	cbSave                = "save"
	cbPrint               = "print"
)

const (
	btnSkip            = "⏭️ Skip"
	btnCancelDialog    = "⏪ Cancel input"
	menuLabelPlanner   = "🧭 Planner"
	menuLabelToday     = "📅 Today"
	menuLabelSubject   = "➕ New subject"
	menuLabelRoutines  = "🗓 Routines"
	menuLabelHelp      = "ℹ️ Help"
	iconSelected       = "✅"
	iconUnselected     = "⬜"
)

type conversationState struct {
	stage   conversationStage
	subject service.SubjectInput
	routine service.RoutineInput
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	subjectSvc    *service.SubjectService
	routineSvc    *service.RoutineService
	prioritySvc   *service.PriorityService
	plannerSvc    *service.PlannerService
	reminderSvc   *service.ReminderService
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(
	token string,
	userRepo *repository.UserRepository,
	subjectSvc *service.SubjectService,
	routineSvc *service.RoutineService,
	prioritySvc *service.PriorityService,
	plannerSvc *service.PlannerService,
	reminderSvc *service.ReminderService,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		subjectSvc:    subjectSvc,
		routineSvc:    routineSvc,
		prioritySvc:   prioritySvc,
		plannerSvc:    plannerSvc,
		reminderSvc:   reminderSvc,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled. Back to the main menu.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Open the planner with /plan or see /help for commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "subjects":
		return b.handleListSubjects(ctx, msg)
	case "newsubject":
		return b.startNewSubjectConversation(ctx, msg)
	case "routines":
		return b.handleListRoutines(ctx, msg)
	case "newroutine":
		return b.startNewRoutineConversation(ctx, msg)
	case "plan":
		return b.handlePlan(ctx, msg)
	case "generate":
		return b.generateAndRender(ctx, msg.Chat.ID, msg.From)
	case "save":
		return b.saveSchedule(ctx, msg.Chat.ID, msg.From)
	case "print":
		return b.printSchedule(ctx, msg.Chat.ID, msg.From)
	case "today":
		return b.handleToday(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.plannerSvc.ResetSession(b.userKey(ctx, msg.From))
		return b.sendText(msg.Chat.ID, "⏪ Planning session reset.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Check /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I build your study day around your subjects, priorities and routines.</b>\n\nCommands:\n"+
			"• /newsubject — add a subject\n"+
			"• /subjects — list your subjects\n"+
			"• /newroutine — add a fixed routine\n"+
			"• /routines — list routines\n"+
			"• /plan — pick subjects and priorities\n"+
			"• /generate — generate today's schedule\n"+
			"• /save — save the generated schedule\n"+
			"• /print — printable version\n"+
			"• /today — today's saved schedule\n"+
			"• /cancel — reset the planning session",
		escape(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>How it works</b>\n" +
		"1. Add subjects with /newsubject and fixed routines with /newroutine.\n" +
		"2. Open /plan, tick the subjects for today and set a priority (1–5) for each.\n" +
		"3. Hit Generate — the AI lays out a day around your routines.\n" +
		"4. /save stores it, /print renders a printable version, /today shows what you saved.\n\n" +
		"Priorities weigh how much time a subject gets: 5 means the longest blocks."
	return b.sendText(msg.Chat.ID, text)
}

// --- subjects ---

func (b *Bot) handleListSubjects(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	subjects, err := b.subjectSvc.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load subjects: %s", escape(err.Error())))
	}
	if len(subjects) == 0 {
		return b.sendText(msg.Chat.ID, "No subjects yet. Add one with /newsubject.")
	}

	var builder strings.Builder
	builder.WriteString("📚 <b>Your subjects</b>\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, sub := range subjects {
		builder.WriteString(fmt.Sprintf("• <b>%s</b> (%s) · learned %s\n", escape(normalizeTitle(sub.Name)), sub.Color, escape(sub.TimeLearned)))
		if sub.Description != "" {
			builder.WriteString(fmt.Sprintf("   📝 %s\n", escape(sub.Description)))
		}
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %s", shortTitle(sub.Name, 24)),
				fmt.Sprintf("%s%d", cbDeleteSubjectPrefix, sub.ID),
			),
		})
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, strings.TrimSpace(builder.String()))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	reply.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(reply)
	return err
}

func (b *Bot) deleteSubjectAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, subjectID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	subject, err := b.subjectSvc.GetSubject(ctx, user, subjectID)
	if err != nil {
		return b.sendText(chatID, "That subject is already gone.")
	}

	if err := b.subjectSvc.DeleteSubject(ctx, user, subjectID); err != nil {
		log.Printf("delete subject id=%d user=%d: %v", subjectID, user.ID, err)
		return b.sendText(chatID, "⚠️ Could not delete the subject. Try again.")
	}

	// Drop the subject from the planning session and its priority row, so a
	// deleted subject cannot linger in the selection.
	session := b.plannerSvc.Session(user.ID)
	if session.IsSelected(subjectID) {
		session.ToggleSubject(subjectID)
	}
	if err := b.prioritySvc.Remove(ctx, user, subjectID); err != nil {
		log.Printf("remove priority user=%d subject=%d: %v", user.ID, subjectID, err)
	}

	log.Printf("[info] subject deleted id=%d user=%d", subjectID, user.ID)
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Subject <b>%s</b> deleted.", escape(normalizeTitle(subject.Name)))); err != nil {
		return err
	}

	fakeMsg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, From: from}
	return b.handleListSubjects(ctx, fakeMsg)
}

func (b *Bot) startNewSubjectConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageSubjectName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New subject.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) startNewRoutineConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageRoutineName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New fixed routine (e.g. Gym, Lunch).\n<b>Step 1:</b> name the activity.", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageSubjectName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The name cannot be empty.", cancelKeyboard())
		}
		state.subject.Name = text
		state.stage = stageSubjectDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short description (or hit Skip).", skipKeyboard())
	case stageSubjectDescription:
		if !isSkipInput(text) {
			state.subject.Description = text
		}
		state.stage = stageSubjectColor
		return b.sendWithReplyMarkup(msg.Chat.ID, "🎨 Pick a color tag (or Skip for blue).", colorKeyboard())
	case stageSubjectColor:
		if !isSkipInput(text) {
			state.subject.Color = strings.ToLower(text)
		}
		err := b.finishSubjectCreation(ctx, msg.From, state.subject, msg.Chat.ID)
		if errors.Is(err, service.ErrUnknownColor) {
			return b.sendWithReplyMarkup(msg.Chat.ID, "That color is not in the palette. Pick one from the keyboard.", colorKeyboard())
		}
		b.clearConversation(msg.From.ID)
		return err
	case stageRoutineName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The name cannot be empty.", cancelKeyboard())
		}
		state.routine.Name = text
		state.stage = stageRoutineStart
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ When does it start? Use <code>HH:MM</code>, e.g. <code>07:30</code>.", cancelKeyboard())
	case stageRoutineStart:
		state.routine.StartTime = text
		state.stage = stageRoutineEnd
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ And when does it end? <code>HH:MM</code>.", cancelKeyboard())
	case stageRoutineEnd:
		state.routine.EndTime = text
		err := b.finishRoutineCreation(ctx, msg.From, state.routine, msg.Chat.ID)
		if err != nil && isRoutineInputError(err) {
			state.stage = stageRoutineStart
			return b.sendWithReplyMarkup(msg.Chat.ID, "Those times do not look right. Start again with the start time, <code>HH:MM</code>.", cancelKeyboard())
		}
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Try again with /newsubject or /newroutine.")
	}
}

func (b *Bot) finishSubjectCreation(ctx context.Context, from *tgbotapi.User, input service.SubjectInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	subject, err := b.subjectSvc.CreateSubject(ctx, user, input)
	if err != nil {
		if errors.Is(err, service.ErrUnknownColor) {
			return err
		}
		return b.sendText(chatID, fmt.Sprintf("Could not save the subject: %s", escape(err.Error())))
	}

	log.Printf("[info] subject created id=%d user=%d", subject.ID, user.ID)
	return b.sendTextWithRemove(chatID, fmt.Sprintf("✅ Subject <b>%s</b> (%s) saved. Open /plan to schedule it.", escape(normalizeTitle(subject.Name)), subject.Color))
}

func (b *Bot) finishRoutineCreation(ctx context.Context, from *tgbotapi.User, input service.RoutineInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	routine, err := b.routineSvc.CreateRoutine(ctx, user, input)
	if err != nil {
		if isRoutineInputError(err) {
			return err
		}
		return b.sendText(chatID, fmt.Sprintf("Could not save the routine: %s", escape(err.Error())))
	}

	log.Printf("[info] routine created id=%d user=%d", routine.ID, user.ID)
	return b.sendTextWithRemove(chatID, fmt.Sprintf("✅ Routine <b>%s</b> (%s - %s) saved.", escape(normalizeTitle(routine.Name)), routine.StartTime, routine.EndTime))
}

// --- routines ---

func (b *Bot) handleListRoutines(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	routines, err := b.routineSvc.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load routines: %s", escape(err.Error())))
	}
	if len(routines) == 0 {
		return b.sendText(msg.Chat.ID, "No fixed routines yet. Add one with /newroutine.")
	}

	var builder strings.Builder
	builder.WriteString("🗓 <b>Fixed routines</b>\n")
	builder.WriteString("The generator schedules study time around these.\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, r := range routines {
		builder.WriteString(fmt.Sprintf("• <b>%s</b> · %s - %s\n", escape(normalizeTitle(r.Name)), r.StartTime, r.EndTime))
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %s", shortTitle(r.Name, 24)),
				fmt.Sprintf("%s%d", cbDeleteRoutinePrefix, r.ID),
			),
		})
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, strings.TrimSpace(builder.String()))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	reply.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(reply)
	return err
}

// --- planner ---

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendPlannerPanel(ctx, msg.Chat.ID, user)
}

// sendPlannerPanel renders the subject selection with priority controls.
// Generate and save buttons appear only when the workflow state allows them.
func (b *Bot) sendPlannerPanel(ctx context.Context, chatID int64, user *model.User) error {
	subjects, err := b.subjectSvc.List(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load subjects: %s", escape(err.Error())))
	}
	if len(subjects) == 0 {
		return b.sendText(chatID, "Add a subject first with /newsubject.")
	}

	session := b.plannerSvc.Session(user.ID)
	priorities := session.Priorities()

	var builder strings.Builder
	builder.WriteString("🧭 <b>Plan your study day</b>\n")
	builder.WriteString("Tick the subjects for today and weigh them 1 (low) to 5 (high).\n")
	builder.WriteString(fmt.Sprintf("\nSelected: <b>%d</b> · state: %s\n", len(session.SelectedSubjects()), session.State()))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, sub := range subjects {
		icon := iconUnselected
		label := shortTitle(sub.Name, 24)
		if session.IsSelected(sub.ID) {
			icon = iconSelected
			if level, ok := priorities[sub.ID]; ok {
				label = fmt.Sprintf("%s · %d/5", label, level)
			}
		}
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", icon, label),
				fmt.Sprintf("%s%d", cbTogglePrefix, sub.ID),
			),
		})
		if session.IsSelected(sub.ID) {
			var row []tgbotapi.InlineKeyboardButton
			for level := model.PriorityMin; level <= model.PriorityMax; level++ {
				mark := strconv.Itoa(level)
				if priorities[sub.ID] == level {
					mark = fmt.Sprintf("·%d·", level)
				}
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(
					mark,
					fmt.Sprintf("%s%d:%d", cbPriorityPrefix, sub.ID, level),
				))
			}
			buttons = append(buttons, row)
		}
	}

	if session.CanGenerate() {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🤖 Generate my schedule", cbGenerate),
		})
	}
	if session.CanSave() {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("💾 Save", cbSave),
			tgbotapi.NewInlineKeyboardButtonData("🖨 Print", cbPrint),
		})
	}

	reply := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	reply.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(reply)
	return err
}

func (b *Bot) toggleSubject(ctx context.Context, chatID int64, from *tgbotapi.User, subjectID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	session := b.plannerSvc.Session(user.ID)
	selected := session.ToggleSubject(subjectID)

	// Mirror the selection server-side: set the default weight on select,
	// purge the entry on deselect. Optimistic: the panel already reflects
	// the change, a store failure is only logged.
	if selected {
		if err := b.prioritySvc.Set(ctx, user, subjectID, model.PriorityDefault); err != nil {
			log.Printf("persist priority user=%d subject=%d: %v", user.ID, subjectID, err)
		}
	} else {
		if err := b.prioritySvc.Remove(ctx, user, subjectID); err != nil {
			log.Printf("remove priority user=%d subject=%d: %v", user.ID, subjectID, err)
		}
	}

	return b.sendPlannerPanel(ctx, chatID, user)
}

func (b *Bot) setPriority(ctx context.Context, chatID int64, from *tgbotapi.User, subjectID uint, level int) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	session := b.plannerSvc.Session(user.ID)
	if err := session.SetPriority(subjectID, level); err != nil {
		return b.sendText(chatID, "Select the subject first, then set its priority.")
	}

	if err := b.prioritySvc.Set(ctx, user, subjectID, level); err != nil {
		log.Printf("persist priority user=%d subject=%d: %v", user.ID, subjectID, err)
	}

	return b.sendPlannerPanel(ctx, chatID, user)
}

func (b *Bot) generateAndRender(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	session := b.plannerSvc.Session(user.ID)

	subjects, err := b.subjectSvc.List(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load subjects: %s", escape(err.Error())))
	}
	routines, err := b.routineSvc.List(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load routines: %s", escape(err.Error())))
	}

	if err := b.sendText(chatID, "🤖 Generating your plan…"); err != nil {
		return err
	}

	slots, err := b.plannerSvc.Generate(ctx, session, subjects, routines)
	switch {
	case errors.Is(err, service.ErrNoSubjectsSelected):
		return b.sendText(chatID, "Select at least one subject in /plan before generating.")
	case errors.Is(err, service.ErrOperationInFlight):
		return b.sendText(chatID, "Hold on — a request is already running.")
	case err != nil:
		log.Printf("generate schedule user=%d: %v", user.ID, err)
		return b.sendText(chatID, "⚠️ Generation failed. Nothing was changed — try again.")
	}

	log.Printf("[info] schedule generated user=%d slots=%d", user.ID, len(slots))
	if err := b.sendText(chatID, renderSchedule(slots, time.Now())); err != nil {
		return err
	}
	return b.sendPlannerPanel(ctx, chatID, user)
}

func (b *Bot) saveSchedule(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	session := b.plannerSvc.Session(user.ID)
	err = b.plannerSvc.Save(ctx, session, time.Now())
	switch {
	case errors.Is(err, service.ErrScheduleNotReady):
		return b.sendText(chatID, "Nothing to save yet — generate a schedule first.")
	case errors.Is(err, service.ErrOperationInFlight):
		return b.sendText(chatID, "Hold on — a request is already running.")
	case err != nil:
		log.Printf("save schedule user=%d: %v", user.ID, err)
		return b.sendText(chatID, "⚠️ Saving failed. The schedule is still here — try again.")
	}

	log.Printf("[info] schedule saved user=%d", user.ID)
	return b.sendText(chatID, "💾 Schedule saved for today. See it anytime with /today.")
}

func (b *Bot) printSchedule(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	session := b.plannerSvc.Session(user.ID)
	if !session.CanSave() {
		return b.sendText(chatID, "Nothing to print yet — generate a schedule first.")
	}

	return b.sendText(chatID, renderPrintable(session.Schedule(), time.Now()))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	text, err := b.reminderSvc.DailySummary(ctx, *user, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "No saved schedule for today. Generate one in /plan and /save it.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load today's schedule: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

// SendDailyReports sends today's saved schedule to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reminderSvc.DailySummary(ctx, user, now)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("build summary for user %d: %v", user.TelegramID, err)
			}
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		subjectID, err := parseID(data, cbTogglePrefix)
		if err != nil {
			return nil
		}
		return b.toggleSubject(ctx, chatID, cb.From, subjectID)
	case strings.HasPrefix(data, cbPriorityPrefix):
		subjectID, level, err := parsePriorityData(data)
		if err != nil {
			return nil
		}
		return b.setPriority(ctx, chatID, cb.From, subjectID, level)
	case strings.HasPrefix(data, cbDeleteSubjectPrefix):
		subjectID, err := parseID(data, cbDeleteSubjectPrefix)
		if err != nil {
			return nil
		}
		return b.deleteSubjectAndRefresh(ctx, chatID, cb.From, subjectID)
	case strings.HasPrefix(data, cbDeleteRoutinePrefix):
		routineID, err := parseID(data, cbDeleteRoutinePrefix)
		if err != nil {
			return nil
		}
		return b.deleteRoutineAndRefresh(ctx, chatID, cb.From, routineID)
	case data == cbGenerate:
		return b.generateAndRender(ctx, chatID, cb.From)
	case data == cbSave:
		return b.saveSchedule(ctx, chatID, cb.From)
	case data == cbPrint:
		return b.printSchedule(ctx, chatID, cb.From)
	default:
		return nil
	}
}

func (b *Bot) deleteRoutineAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, routineID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	routine, err := b.routineSvc.GetRoutine(ctx, user, routineID)
	if err != nil {
		return b.sendText(chatID, "That routine is already gone.")
	}

	if err := b.routineSvc.DeleteRoutine(ctx, user, routineID); err != nil {
		log.Printf("delete routine id=%d user=%d: %v", routineID, user.ID, err)
		return b.sendText(chatID, "⚠️ Could not delete the routine. Try again.")
	}

	log.Printf("[info] routine deleted id=%d user=%d", routineID, user.ID)
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Routine <b>%s</b> deleted.", escape(normalizeTitle(routine.Name)))); err != nil {
		return err
	}

	fakeMsg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, From: from}
	return b.handleListRoutines(ctx, fakeMsg)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelPlanner):
		return true, b.handlePlan(ctx, msg)
	case strings.ToLower(menuLabelToday):
		return true, b.handleToday(ctx, msg)
	case strings.ToLower(menuLabelSubject):
		return true, b.startNewSubjectConversation(ctx, msg)
	case strings.ToLower(menuLabelRoutines):
		return true, b.handleListRoutines(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

// --- rendering ---

func renderSchedule(slots []model.TimeSlot, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("✨ <b>Your smart schedule</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	if len(slots) == 0 {
		builder.WriteString("— the generator returned an empty day\n")
		return strings.TrimSpace(builder.String())
	}

	for _, slot := range slots {
		icon := slotTypeIcon(slot.Type)
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> — %s", icon, slot.Time, escape(strings.TrimSpace(slot.Activity))))
		if slot.Type == model.SlotStudy {
			color := slot.Color
			if color == "" {
				color = model.DefaultColor
			}
			builder.WriteString(fmt.Sprintf(" <i>(%s)</i>", color))
		}
		builder.WriteByte('\n')
	}

	builder.WriteString("\n💾 /save to keep it · 🖨 /print for a printable version")
	return strings.TrimSpace(builder.String())
}

// renderPrintable builds a fixed-width timetable for printing. Side effect
// only: it does not change any planning state.
func renderPrintable(slots []model.TimeSlot, now time.Time) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🖨 Schedule for %s\n<pre>", now.Format("Mon, 02 Jan 2006")))
	for _, slot := range slots {
		builder.WriteString(fmt.Sprintf("%-15s | %-7s | %s\n", slot.Time, slot.Type, escape(strings.TrimSpace(slot.Activity))))
	}
	builder.WriteString("</pre>")
	return builder.String()
}

func slotTypeIcon(t model.SlotType) string {
	switch t {
	case model.SlotStudy:
		return "📘"
	case model.SlotBreak:
		return "☕"
	default:
		return "🔁"
	}
}

// --- plumbing ---

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// userKey resolves the internal user ID for session bookkeeping; falls back
// to zero when the user cannot be resolved (session is then a no-op reset).
func (b *Bot) userKey(ctx context.Context, from *tgbotapi.User) uint {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return 0
	}
	return user.ID
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

// --- keyboards ---

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelPlanner),
			tgbotapi.NewKeyboardButton(menuLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelSubject),
			tgbotapi.NewKeyboardButton(menuLabelRoutines),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func colorKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, color := range model.Colors {
		row = append(row, tgbotapi.NewKeyboardButton(color))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// --- parsing helpers ---

func parseID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parsePriorityData(data string) (uint, int, error) {
	raw := strings.TrimPrefix(data, cbPriorityPrefix)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed priority callback %q", data)
	}
	subjectID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	level, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return uint(subjectID), level, nil
}

func isRoutineInputError(err error) bool {
	if errors.Is(err, service.ErrRoutineFieldsMissing) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "invalid")
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input" || value == "cancel"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
