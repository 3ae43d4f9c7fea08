package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/dal/testutil"
	"github.com/olexh/taxiscout/internal/ingest"
	"github.com/olexh/taxiscout/internal/service"
	"github.com/olexh/taxiscout/internal/service/mocks"
	"github.com/olexh/taxiscout/pkg/clock"
)

// pipelineFixture wires a full pipeline on top of stateful in-memory stores,
// so multi-event scenarios exercise the real merge/match/dispatch flow with
// only the Telegram edge mocked.
type pipelineFixture struct {
	messenger *mocks.MockMessenger
	clock     *clock.Mock

	pipeline *service.Pipeline
}

func newPipelineFixture(t *testing.T, drivers ...dal.Driver) *pipelineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	windows := make(map[string]dal.MergeWindow)
	mergeStore := mocks.NewMockMergeWindowStore(ctrl)
	mergeStore.EXPECT().GetMergeWindow(gomock.Any()).DoAndReturn(func(key string) (dal.MergeWindow, bool, error) {
		w, ok := windows[key]
		return w, ok, nil
	}).AnyTimes()
	mergeStore.EXPECT().PutMergeWindow(gomock.Any()).DoAndReturn(func(w dal.MergeWindow) error {
		windows[w.RouteKey] = w
		return nil
	}).AnyTimes()

	records := make(map[string]dal.Notification)
	notifStore := mocks.NewMockNotificationStore(ctrl)
	notifStore.EXPECT().GetNotification(gomock.Any(), gomock.Any()).DoAndReturn(func(driverID int64, routeKey string) (dal.Notification, bool, error) {
		n, ok := records[fmt.Sprintf("%d_%s", driverID, routeKey)]
		return n, ok, nil
	}).AnyTimes()
	notifStore.EXPECT().PutNotification(gomock.Any()).DoAndReturn(func(n dal.Notification) error {
		records[fmt.Sprintf("%d_%s", n.DriverID, n.RouteKey)] = n
		return nil
	}).AnyTimes()

	driverStore := mocks.NewMockDriverStore(ctrl)
	driverStore.EXPECT().GetAllDrivers().Return(drivers, nil).AnyTimes()

	f := &pipelineFixture{
		messenger: mocks.NewMockMessenger(ctrl),
		clock:     clock.NewMock(t0),
	}

	log := testLogger()
	renderer := service.NewRenderer(nil)
	selector := service.NewSelector(driverStore, nil, log)
	merges := service.NewMerges(mergeStore, 24*time.Hour, log)
	dispatcher := service.NewDispatcher(notifStore, driverStore, f.messenger, renderer, selector, f.clock, 5*time.Second, 24*time.Hour, log)

	f.pipeline = service.NewPipeline(merges, selector, dispatcher, f.clock, 2, log)
	return f
}

func eventAt(observedAt time.Time, groupID int64, messageID int, text string) ingest.Event {
	return ingest.Event{
		GroupID:    groupID,
		GroupTitle: fmt.Sprintf("Группа %d", groupID),
		MessageID:  messageID,
		Text:       text,
		AuthorID:   555,
		ObservedAt: observedAt,
	}
}

func TestPipeline_Process_SendThenEditWithinWindow(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100, 200).Build()
	f := newPipelineFixture(t, driver)

	var first, second string
	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, text, _ string) (int, error) {
			first = text
			return 42, nil
		})
	f.messenger.EXPECT().Edit(gomock.Any(), int64(1), 42, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ int, text, _ string) error {
			second = text
			return nil
		})

	ctx := context.Background()
	f.pipeline.Process(ctx, eventAt(t0, 100, 1, "Челябинск - Екатеринбург, 3500₽, 1 чел"))
	f.pipeline.Process(ctx, eventAt(t0.Add(30*time.Minute), 200, 7, "из Челябинска в Екатеринбург"))

	assert.Equal(t, 1, strings.Count(first, "➡️"))
	assert.Equal(t, 2, strings.Count(second, "➡️"))
	assert.Contains(t, second, "💰 Цена: 3500 ₽")
}

func TestPipeline_Process_ExpiredWindowSendsNewMessage(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100).Build()
	f := newPipelineFixture(t, driver)

	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(42, nil)
	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(43, nil)

	ctx := context.Background()
	f.pipeline.Process(ctx, eventAt(t0, 100, 1, "Челябинск - Екатеринбург, 3500₽"))
	// same route reposted after the window closed
	f.pipeline.Process(ctx, eventAt(t0.Add(3*time.Hour), 100, 2, "Челябинск - Екатеринбург, 3500₽"))
}

func TestPipeline_Process_NewlyMatchedDriverGetsFreshSend(t *testing.T) {
	early := testutil.NewDriver(1).WithGroups(100).Build()
	late := testutil.NewDriver(2).WithGroups(200).Build()
	f := newPipelineFixture(t, early, late)

	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(42, nil)
	// second posting: driver 1 gets an edit, driver 2 sees the route first
	f.messenger.EXPECT().Edit(gomock.Any(), int64(1), 42, gomock.Any(), gomock.Any()).Return(nil)
	f.messenger.EXPECT().Send(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).Return(77, nil)

	ctx := context.Background()
	f.pipeline.Process(ctx, eventAt(t0, 100, 1, "Челябинск - Екатеринбург, 3500₽"))
	f.pipeline.Process(ctx, eventAt(t0.Add(15*time.Minute), 200, 5, "Челябинск - Екатеринбург, 3500₽"))
}

func TestPipeline_Process_DropsNonOrderText(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100).Build()
	f := newPipelineFixture(t, driver)
	// no messenger expectations: chatter must not reach dispatch

	f.pipeline.Process(context.Background(), eventAt(t0, 100, 1, "Всем привет, как дела?"))
}

func TestPipeline_Process_ClosedOrderIsRejected(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100).Build()
	f := newPipelineFixture(t, driver)

	f.pipeline.Process(context.Background(), eventAt(t0, 100, 1, "Челябинск - Екатеринбург, 3500₽ ЗАКРЫТ"))
}

func TestPipeline_Run_ConsumesChannelUntilClosed(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100).Build()
	f := newPipelineFixture(t, driver)

	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(42, nil)

	events := make(chan ingest.Event, 1)
	events <- eventAt(t0, 100, 1, "Челябинск - Екатеринбург, 3500₽")
	close(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.pipeline.Run(context.Background(), events)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after channel close")
	}
}

func TestPipeline_Process_DefaultsObservedAtFromClock(t *testing.T) {
	driver := testutil.NewDriver(1).WithGroups(100).Build()
	f := newPipelineFixture(t, driver)

	f.messenger.EXPECT().Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(42, nil)

	e := eventAt(time.Time{}, 100, 1, "Челябинск - Екатеринбург, 3500₽")
	f.pipeline.Process(context.Background(), e)
}

func TestPipeline_Cleanup(t *testing.T) {
	ctrl := gomock.NewController(t)

	mergeStore := mocks.NewMockMergeWindowStore(ctrl)
	mergeStore.EXPECT().CleanupMergeWindows(24 * time.Hour).Return(nil)
	notifStore := mocks.NewMockNotificationStore(ctrl)
	notifStore.EXPECT().CleanupNotifications(48 * time.Hour).Return(nil)
	driverStore := mocks.NewMockDriverStore(ctrl)
	messenger := mocks.NewMockMessenger(ctrl)

	log := testLogger()
	merges := service.NewMerges(mergeStore, 24*time.Hour, log)
	selector := service.NewSelector(driverStore, nil, log)
	dispatcher := service.NewDispatcher(notifStore, driverStore, messenger, service.NewRenderer(nil), selector, clock.NewMock(t0), time.Second, 48*time.Hour, log)

	p := service.NewPipeline(merges, selector, dispatcher, clock.NewMock(t0), 1, log)

	require.NoError(t, p.Cleanup(context.Background()))
}
