package jsonfile

//文件存储的会话实现，事务操作均为空操作
type Session struct{}

func (s *Session) Begin() error {
	return nil
}

func (s *Session) Close() error {
	return nil
}

func (s *Session) Commit() error {
	return nil
}

func (s *Session) Rollback() error {
	return nil
}
