package leaderboard

// PlanWindow computes the pagination geometry for the list portion of a
// leaderboard: the fixed-size podium sits on top, the remaining ranks are
// paginated below it in pages of pageSize.
//
// topCount is the number of ranked entries under consideration; the
// caller caps it at its maximum before calling. The result always has
// TotalPages >= 1 and CurrentPage within [1, TotalPages], whatever
// requestedPage was.
func PlanWindow(topCount, requestedPage, pageSize, podiumSize int) RankWindow {
	if topCount < 0 {
		topCount = 0
	}
	if podiumSize < 0 {
		podiumSize = 0
	}
	if pageSize < 1 {
		pageSize = 1
	}

	listTotal := topCount - podiumSize
	if listTotal <= 0 {
		// Everything fits in the podium: one empty page, no rank bounds.
		return RankWindow{
			ListTotal:   0,
			TotalPages:  1,
			CurrentPage: 1,
		}
	}

	totalPages := (listTotal + pageSize - 1) / pageSize

	currentPage := requestedPage
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	startRank := podiumSize + (currentPage-1)*pageSize + 1
	endRank := podiumSize + currentPage*pageSize
	if endRank > topCount {
		endRank = topCount
	}

	return RankWindow{
		ListTotal:     listTotal,
		TotalPages:    totalPages,
		CurrentPage:   currentPage,
		ListStartRank: startRank,
		ListEndRank:   endRank,
	}
}
