package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todo-manager/internal/model"
	"todo-manager/internal/service"
)

const (
	iconDefault   = "🟢"
	iconDue       = "⏳"
	iconOverdue   = "⚠️"
	iconDone      = "✅"
	iconRecurring = "♻️"
)

// Bot is a Telegram command surface over the coordinator. It is a thin
// adapter: every command maps onto one coordinator operation.
type Bot struct {
	api *tgbotapi.BotAPI
	c   *service.Coordinator
}

func New(token string, c *service.Coordinator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{api: api, c: c}, nil
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
		if update.Message == nil || update.Message.From == nil || !update.Message.IsCommand() {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleCommand(ctx, update.Message); err != nil {
			log.Printf("handle command: %v", err)
		}
	}

	return nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		return b.handleHelp(msg)
	case "list":
		return b.sendTodoList(msg.Chat.ID, true)
	case "all":
		return b.sendTodoList(msg.Chat.ID, false)
	case "add":
		return b.handleAdd(ctx, msg, args)
	case "shop":
		return b.handleShop(ctx, msg, args)
	case "done":
		return b.handleDone(ctx, msg, args)
	case "delete":
		return b.handleDelete(ctx, msg, args)
	case "check":
		return b.handleCheck(ctx, msg, args)
	case "overdue":
		return b.handleOverdue(msg)
	case "persons":
		return b.handlePersons(msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command, see /help.")
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "👋 <b>Todo manager</b>\n" +
		"• /list — active todos by urgency\n" +
		"• /all — every todo, completed included\n" +
		"• /add &lt;title&gt; [| description] — add a simple todo\n" +
		"• /shop &lt;title&gt;: item, item — add a shopping list\n" +
		"• /done &lt;id&gt; [result] — toggle completion\n" +
		"• /check &lt;id&gt; &lt;item&gt; — toggle one list item\n" +
		"• /delete &lt;id&gt; — remove a todo\n" +
		"• /overdue — summary counts\n" +
		"• /persons — known persons\n" +
		"Ids may be shortened to any unique prefix."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message, args string) error {
	if args == "" {
		return b.sendText(msg.Chat.ID, "Usage: /add buy stamps | before friday")
	}

	input := service.TodoInput{Title: args, Type: model.TypeSimple}
	if title, description, ok := strings.Cut(args, "|"); ok {
		input.Title = strings.TrimSpace(title)
		input.Description = strings.TrimSpace(description)
	}

	todo, err := b.c.CreateTodo(ctx, input)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not create todo: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Created <b>%s</b> (%s)", escape(todo.Title), shortID(todo.ID)))
}

func (b *Bot) handleShop(ctx context.Context, msg *tgbotapi.Message, args string) error {
	title, rest, ok := strings.Cut(args, ":")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return b.sendText(msg.Chat.ID, "Usage: /shop groceries: milk, eggs")
	}

	input := service.TodoInput{Title: title, Type: model.TypeShopping}
	for _, name := range strings.Split(rest, ",") {
		if name = strings.TrimSpace(name); name != "" {
			input.Items = append(input.Items, service.ItemInput{Name: name})
		}
	}

	todo, err := b.c.CreateTodo(ctx, input)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not create list: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"Created list <b>%s</b> (%s) with %d items", escape(todo.Title), shortID(todo.ID), len(todo.Items)))
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message, args string) error {
	idArg, result, _ := strings.Cut(args, " ")
	todo, err := b.findTodo(idArg)
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}

	if err := b.c.CompleteTodo(ctx, todo.ID, strings.TrimSpace(result), time.Now()); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not toggle todo: %s", escape(err.Error())))
	}
	if todo.Completed {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Reopened <b>%s</b>", escape(todo.Title)))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("%s Completed <b>%s</b>", iconDone, escape(todo.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message, args string) error {
	todo, err := b.findTodo(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	if err := b.c.DeleteTodo(ctx, todo.ID); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not delete todo: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Deleted <b>%s</b>", escape(todo.Title)))
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message, args string) error {
	idArg, itemArg, ok := strings.Cut(args, " ")
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /check <todo id> <item id or name>")
	}
	todo, err := b.findTodo(idArg)
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}

	item, err := findItem(todo, strings.TrimSpace(itemArg))
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	if err := b.c.ToggleItem(ctx, todo.ID, item.ID); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not toggle item: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Toggled <b>%s</b> in <b>%s</b>", escape(item.Name), escape(todo.Title)))
}

func (b *Bot) handleOverdue(msg *tgbotapi.Message) error {
	counts := b.c.Counts(time.Now())
	text := fmt.Sprintf(
		"📋 <b>Summary</b>\n%d todos, %d active, %s %d overdue",
		counts.All, counts.Active, iconOverdue, counts.Overdue,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handlePersons(msg *tgbotapi.Message) error {
	persons := b.c.ListPersons()
	var sb strings.Builder
	sb.WriteString("👥 <b>Persons</b>\n")
	for _, person := range persons {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", escape(person.Name), shortID(person.ID)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) sendTodoList(chatID int64, filterCompleted bool) error {
	now := time.Now()
	todos := b.c.ListTodos(filterCompleted, now)
	if len(todos) == 0 {
		return b.sendText(chatID, "Nothing to do. Enjoy it.")
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Todos</b>\n")
	for _, todo := range todos {
		sb.WriteString(formatTodo(todo, now))
	}
	return b.sendText(chatID, strings.TrimSpace(sb.String()))
}

func formatTodo(todo *model.Todo, now time.Time) string {
	var sb strings.Builder

	icon := iconDefault
	due, hasDue := todo.DueInstant()
	switch {
	case todo.Completed:
		icon = iconDone
	case hasDue && now.After(due):
		icon = iconOverdue
	case hasDue && due.Sub(now) <= 48*time.Hour:
		icon = iconDue
	}

	sb.WriteString(fmt.Sprintf("%s %s <code>%s</code>", icon, escape(todo.Title), shortID(todo.ID)))
	if todo.Recurring {
		sb.WriteString(" " + iconRecurring)
	}
	if hasDue {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s %s", todo.DueDate, todo.DueTime))
	}
	for _, item := range todo.Items {
		box := "☐"
		if item.Checked {
			box = "☑"
		}
		sb.WriteString(fmt.Sprintf("\n   %s %s", box, escape(item.Name)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

// findTodo resolves a user-typed id prefix to exactly one todo.
func (b *Bot) findTodo(arg string) (*model.Todo, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("missing todo id")
	}

	var match *model.Todo
	for _, todo := range b.c.ListTodos(false, time.Now()) {
		if !strings.HasPrefix(todo.ID, arg) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("id %q is ambiguous", arg)
		}
		match = todo
	}
	if match == nil {
		return nil, fmt.Errorf("no todo with id %q", arg)
	}
	return match, nil
}

// findItem resolves an item by id prefix or exact name.
func findItem(todo *model.Todo, arg string) (*model.Item, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing item id")
	}
	for i := range todo.Items {
		item := &todo.Items[i]
		if strings.HasPrefix(item.ID, arg) || strings.EqualFold(item.Name, arg) {
			return item, nil
		}
	}
	return nil, fmt.Errorf("no item %q in %q", arg, todo.Title)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func escape(s string) string {
	return html.EscapeString(s)
}
