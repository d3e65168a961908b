package service

import (
	"context"
	"fmt"
	moviesrepo "quickshow/internal/movies/repository"
	showsrepo "quickshow/internal/shows/repository"
	usersrepo "quickshow/internal/users/repository"
	"quickshow/pkg/durable"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/mailer"
	"sync"
	"time"
)

// ReminderTask is one email to one seat holder for one upcoming show.
type ReminderTask struct {
	UserEmail  string
	UserName   string
	MovieTitle string
	ShowTime   time.Time
}

// Summary reports one reminder run.
type Summary struct {
	Sent    int
	Failed  int
	Message string
}

// sendOutcome is the recorded result of the send step, so a replayed
// invocation reports the counts from the run that actually sent.
type sendOutcome struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ReminderService emails seat holders shortly before their show starts.
// Each run looks one lead interval ahead and catches shows starting
// inside a narrow window, so a show is picked up by exactly one run.
type ReminderService struct {
	shows    showsrepo.ShowRepository
	movies   moviesrepo.MovieRepository
	users    usersrepo.UserRepository
	sender   mailer.Sender
	location *time.Location

	lead          time.Duration
	window        time.Duration
	maxConcurrent int
	log           *logger.Logger
}

func NewReminderService(
	shows showsrepo.ShowRepository,
	movies moviesrepo.MovieRepository,
	users usersrepo.UserRepository,
	sender mailer.Sender,
	location *time.Location,
	lead time.Duration,
	window time.Duration,
	maxConcurrent int,
	log *logger.Logger,
) *ReminderService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ReminderService{
		shows:         shows,
		movies:        movies,
		users:         users,
		sender:        sender,
		location:      location,
		lead:          lead,
		window:        window,
		maxConcurrent: maxConcurrent,
		log:           log.WithComponent("show-reminders"),
	}
}

// ComputeWindow returns the span of show start times a run starting at
// now is responsible for: [now+lead-window, now+lead], both ends
// inclusive.
func (s *ReminderService) ComputeWindow(now time.Time) (start, end time.Time) {
	end = now.Add(s.lead)
	start = end.Add(-s.window)
	return start, end
}

// Run executes one reminder pass. Task preparation and the send fan-out
// are separate durable steps; a redelivery replays the prepared task
// list and never re-sends a completed batch.
func (s *ReminderService) Run(ctx context.Context, inv *durable.Invocation, now time.Time) (*Summary, error) {
	start, end := s.ComputeWindow(now)

	tasks, err := durable.RunStep(ctx, inv, "prepare-reminder-tasks", func(ctx context.Context) ([]ReminderTask, error) {
		return s.prepareTasks(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return &Summary{Message: "No reminders to send."}, nil
	}

	outcome, err := durable.RunStep(ctx, inv, "send-all-reminders", func(ctx context.Context) (sendOutcome, error) {
		sent, failed := s.sendAll(ctx, tasks)
		return sendOutcome{Sent: sent, Failed: failed}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{Sent: outcome.Sent, Failed: outcome.Failed}
	summary.Message = fmt.Sprintf("Sent %d reminder(s), %d failed.", summary.Sent, summary.Failed)
	s.log.Info("Reminder run finished",
		"window_start", start,
		"window_end", end,
		"sent", summary.Sent,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *ReminderService) prepareTasks(ctx context.Context, start, end time.Time) ([]ReminderTask, error) {
	shows, err := s.shows.FindInWindow(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("failed to load upcoming shows", err)
	}

	var tasks []ReminderTask
	for _, show := range shows {
		userIDs := show.OccupantIDs()
		if len(userIDs) == 0 {
			continue
		}

		movie, err := s.movies.FindByID(ctx, show.Movie)
		if err != nil {
			s.log.Warn("Skipping show with unresolvable movie", "show_id", show.ID, "movie_id", show.Movie, "error", err)
			continue
		}

		users, err := s.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, apperrors.Internal("failed to load seat holders", err)
		}

		for _, user := range users {
			tasks = append(tasks, ReminderTask{
				UserEmail:  user.Email,
				UserName:   user.Name,
				MovieTitle: movie.Title,
				ShowTime:   show.ShowDateTime,
			})
		}
	}
	return tasks, nil
}

// sendAll fans the tasks out with bounded concurrency. Individual
// failures are counted, not propagated; a half-failed batch is still a
// completed step.
func (s *ReminderService) sendAll(ctx context.Context, tasks []ReminderTask) (sent, failed int) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.maxConcurrent)
	)

	for _, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(task ReminderTask) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.sender.Send(ctx, s.reminderEmail(task))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.log.Error("Failed to send reminder", "to", task.UserEmail, "movie", task.MovieTitle, "error", err)
				return
			}
			sent++
		}(task)
	}

	wg.Wait()
	return sent, failed
}

func (s *ReminderService) reminderEmail(task ReminderTask) mailer.Email {
	return mailer.Email{
		To:      task.UserEmail,
		Subject: fmt.Sprintf("🎬 Reminder: Your movie %q starts soon!", task.MovieTitle),
		Body: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 24px; background-color: #fffbe6; border-radius: 10px; color: #333;">
    <h2 style="color: #F84565;">Hey %s,</h2>
    <p style="font-size: 16px;">Just a reminder that your movie:</p>
    <div style="padding: 16px; background-color: #ffffff; border-left: 5px solid #F84565; margin: 20px 0; border-radius: 6px;">
        <h3 style="margin: 0; color: #000;">🎥 <span style="color: #F84565;">%q</span></h3>
        <p style="margin: 8px 0 0; font-size: 15px;">
            <strong>Date:</strong> %s<br/>
            <strong>Time:</strong> %s
        </p>
    </div>
    <p style="font-size: 15px;">Only <strong>8 hours to go</strong> – make sure your popcorn is ready! 🍿</p>
    <br/>
    <p style="font-size: 14px; color: #555;">See you at the movies!<br/><strong>- QuickShow Team</strong></p>
</div>`,
			task.UserName,
			task.MovieTitle,
			mailer.FormatDate(task.ShowTime, s.location),
			mailer.FormatTime(task.ShowTime, s.location),
		),
	}
}
