package bot

import (
	"fmt"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"strconv"
	"strings"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

type updatesSource interface {
	GetUpdatesChan(config botApi.UpdateConfig) botApi.UpdatesChannel
	StopReceivingUpdates()
}

const (
	startCommandName       = "start"
	helpCommandName        = "help"
	jobsCommandName        = "jobs"
	jobCommandName         = "job"
	removeCommandName      = "remove"
	clearCommandName       = "clear"
	departmentsCommandName = "departments"
	locationsCommandName   = "locations"
	functionsCommandName   = "functions"
)

var errInvalidArguments = errors.New("invalid command arguments")

// toggleCommands maps the short toggle commands to their filter category.
var toggleCommands = map[string]filters.Category{
	"dept": filters.Department,
	"loc":  filters.Location,
	"fun":  filters.Function,
}

var lookupCommands = map[string]filters.Category{
	departmentsCommandName: filters.Department,
	locationsCommandName:   filters.Location,
	functionsCommandName:   filters.Function,
}

// splitCommand turns clickable forms like "job_101" or "remove_dept_3" into a
// command name and space separated arguments.
func splitCommand(command string, args string) (string, string) {
	name, rest, found := strings.Cut(command, "_")
	if !found {
		return command, strings.TrimSpace(args)
	}
	rest = strings.ReplaceAll(rest, "_", " ")
	if args = strings.TrimSpace(args); args != "" {
		rest += " " + args
	}
	return name, rest
}

func parseID(args string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errInvalidArguments, "expected a positive id, got %q", args)
	}
	return id, nil
}

func parseRemoveArgs(args string) (filters.Category, int, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, errors.Wrapf(errInvalidArguments, "expected <category> <id>, got %q", args)
	}
	category, err := filters.ParseCategory(fields[0])
	if err != nil {
		return "", 0, err
	}
	id, err := parseID(fields[1])
	if err != nil {
		return "", 0, err
	}
	return category, id, nil
}

func commandLink(name string, args ...any) string {
	parts := []string{"/" + name}
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, "_")
}

func sendWithLogError(api apiInterface, chattable botApi.Chattable) (botApi.Message, error) {
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}
