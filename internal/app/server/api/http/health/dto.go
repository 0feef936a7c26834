package health

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status        string `json:"status" example:"OK" doc:"Состояние сервиса"`
	Authenticated bool   `json:"authenticated" doc:"Есть ли сессия платформы опросов"`
	Storage       string `json:"storage" example:"OK" doc:"Состояние локального хранилища фильтров и журнала"`
	Uptime        string `json:"uptime" example:"1h2m3s" doc:"Время работы процесса"`
}
